package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssenti/levit-3/internal/domain"
)

func TestParseClarifyQuestions(t *testing.T) {
	t.Run("parses questions with defaults", func(t *testing.T) {
		content := `{"questions":[
			{"question":"복용 중인 약이 있나요?"},
			{"id":"pref","question":"선호를 골라주세요","kind":"single_choice","options":["가성비","브랜드 신뢰"]}
		]}`
		questions := parseClarifyQuestions(content)

		require.Len(t, questions, 2)
		assert.Equal(t, "q1", questions[0].ID)
		assert.Equal(t, "text", questions[0].Kind)
		assert.Equal(t, "pref", questions[1].ID)
		assert.Equal(t, "single_choice", questions[1].Kind)
		assert.Equal(t, []string{"가성비", "브랜드 신뢰"}, questions[1].Options)
	})

	t.Run("caps at two questions", func(t *testing.T) {
		content := `{"questions":[{"question":"1"},{"question":"2"},{"question":"3"}]}`
		questions := parseClarifyQuestions(content)
		assert.Len(t, questions, 2)
	})

	t.Run("numeric ids are stringified", func(t *testing.T) {
		content := `{"questions":[{"id":3,"question":"q"}]}`
		questions := parseClarifyQuestions(content)
		require.Len(t, questions, 1)
		assert.Equal(t, "3", questions[0].ID)
	})

	t.Run("malformed content degrades to no questions", func(t *testing.T) {
		assert.Nil(t, parseClarifyQuestions("no json here"))
		assert.Nil(t, parseClarifyQuestions(`{"questions": 42}`))
	})

	t.Run("fenced content is accepted", func(t *testing.T) {
		content := "```json\n{\"questions\":[{\"question\":\"q\"}]}\n```"
		questions := parseClarifyQuestions(content)
		assert.Len(t, questions, 1)
	})
}

func TestParseSummaries(t *testing.T) {
	t.Run("parses per-rank summaries and advice", func(t *testing.T) {
		content := `{"ranked":[{"rank":1,"summary_kr":"1위 요약"},{"rank":2,"summary_kr":"2위 요약"}],"final_advice_markdown":"## 조언"}`
		summaries, advice := parseSummaries(content)

		assert.Equal(t, "1위 요약", summaries[1])
		assert.Equal(t, "2위 요약", summaries[2])
		assert.Equal(t, "## 조언", advice)
	})

	t.Run("skips empty and invalid entries", func(t *testing.T) {
		content := `{"ranked":[{"rank":0,"summary_kr":"ignored"},{"rank":1,"summary_kr":"  "},{"rank":2,"summary_kr":"kept"}]}`
		summaries, advice := parseSummaries(content)

		assert.Len(t, summaries, 1)
		assert.Equal(t, "kept", summaries[2])
		assert.Empty(t, advice)
	})

	t.Run("malformed content degrades to nothing", func(t *testing.T) {
		summaries, advice := parseSummaries("the model rambled instead")
		assert.Nil(t, summaries)
		assert.Empty(t, advice)
	})
}

func TestBuildClarifyPrompt(t *testing.T) {
	budget := 30000
	prompt, err := buildClarifyPrompt(&domain.ClarifyRequest{
		SupplementType:    "오메가3",
		BudgetKRWPerMonth: &budget,
		TargetAndConcerns: "40대 여성, 혈행 개선",
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, "오메가3")
	assert.Contains(t, prompt, "30000")
	assert.Contains(t, prompt, "output_schema")
}

func TestBuildSummaryPrompt(t *testing.T) {
	req := &domain.RecommendRequest{
		ClarifyRequest: domain.ClarifyRequest{SupplementType: "오메가3", TargetAndConcerns: "혈행"},
	}
	ranked := []domain.RankedProduct{
		{Rank: 1, Product: domain.Product{Name: "오메가3 골드"}, Score: 0.255},
	}

	prompt, err := buildSummaryPrompt(req, ranked)
	require.NoError(t, err)
	assert.Contains(t, prompt, "오메가3 골드")
	assert.Contains(t, prompt, "summary_kr")
}
