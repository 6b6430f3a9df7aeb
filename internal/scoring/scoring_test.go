package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/evaltrack/internal/model"
)

func scaleItem(v int16) model.EvaluationItem {
	item := model.EvaluationItem{QuestionType: model.QuestionScale}
	if err := item.SetAnswer(model.ScaleAnswer(v)); err != nil {
		panic(err)
	}
	return item
}

func TestBlockCode(t *testing.T) {
	cases := map[string]string{
		"Block A - Teamwork":      "A",
		"block b":                 "B",
		"BLOCK C: Communication":  "C",
		"Introduction":            UnknownBlock,
		"Blocked drains":          UnknownBlock,
		"Block F - out of range":  UnknownBlock,
		"":                        UnknownBlock,
		"Results (Block E, 2025)": "E",
	}
	for title, want := range cases {
		assert.Equal(t, want, BlockCode(title), "title %q", title)
	}
}

func TestCompletionScore(t *testing.T) {
	assert.Nil(t, CompletionScore(nil))
	assert.Nil(t, CompletionScore([]model.EvaluationItem{
		{QuestionType: model.QuestionScale}, // unanswered
		{QuestionType: model.QuestionText},
	}), "no answered scale items means no score")

	items := []model.EvaluationItem{
		scaleItem(3),
		scaleItem(4),
		scaleItem(4),
		{QuestionType: model.QuestionYesNo}, // ignored by the average
	}
	got := CompletionScore(items)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("3.67")), "got %s", got)
}

func TestCompletionScoreExact(t *testing.T) {
	got := CompletionScore([]model.EvaluationItem{scaleItem(2), scaleItem(5)})
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("3.5")), "got %s", got)
}

func weight(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestWeightedBlockScoreExplicitWeights(t *testing.T) {
	itemIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	blocks := []model.TemplateBlock{{
		ID:            uuid.New(),
		Key:           "A",
		WeightPercent: decimal.RequireFromString("100"),
		Items: []model.TemplateItem{
			{ID: itemIDs[0], Order: 1, ItemWeight: weight("2")},
			{ID: itemIDs[1], Order: 2, ItemWeight: weight("2")},
			{ID: itemIDs[2], Order: 3, ItemWeight: weight("4")},
		},
	}}
	scores := map[uuid.UUID]decimal.Decimal{
		itemIDs[0]: decimal.NewFromInt(3),
		itemIDs[1]: decimal.NewFromInt(4),
		itemIDs[2]: decimal.NewFromInt(5),
	}

	// weights normalize to {0.25, 0.25, 0.5}: 0.75 + 1 + 2.5 = 4.25
	got := WeightedBlockScore(blocks, scores)
	assert.True(t, got.Equal(decimal.RequireFromString("4.25")), "got %s", got)
}

func TestWeightedBlockScoreEqualFallback(t *testing.T) {
	itemIDs := []uuid.UUID{uuid.New(), uuid.New()}
	blocks := []model.TemplateBlock{{
		ID:            uuid.New(),
		Key:           "B",
		WeightPercent: decimal.RequireFromString("50"),
		Items: []model.TemplateItem{
			{ID: itemIDs[0], Order: 1, ItemWeight: weight("3")},
			{ID: itemIDs[1], Order: 2}, // missing weight forces 1/n for all
		},
	}}
	scores := map[uuid.UUID]decimal.Decimal{
		itemIDs[0]: decimal.NewFromInt(2),
		itemIDs[1]: decimal.NewFromInt(4),
	}

	// block score (2+4)/2 = 3, total 3 × 50% = 1.5
	got := WeightedBlockScore(blocks, scores)
	assert.True(t, got.Equal(decimal.RequireFromString("1.5")), "got %s", got)
}

func TestWeightedBlockScoreSkipsEmptyBlocksAndUnscoredItems(t *testing.T) {
	scored := uuid.New()
	blocks := []model.TemplateBlock{
		{ID: uuid.New(), Key: "A", WeightPercent: decimal.RequireFromString("60")},
		{
			ID:            uuid.New(),
			Key:           "B",
			WeightPercent: decimal.RequireFromString("40"),
			Items: []model.TemplateItem{
				{ID: scored, Order: 1},
				{ID: uuid.New(), Order: 2}, // never scored, contributes 0
			},
		},
	}
	scores := map[uuid.UUID]decimal.Decimal{scored: decimal.NewFromInt(4)}

	// block B: equal weights 1/2, score 4×0.5 = 2; total 2 × 40% = 0.8
	got := WeightedBlockScore(blocks, scores)
	assert.True(t, got.Equal(decimal.RequireFromString("0.8")), "got %s", got)
}

func TestBlockStats(t *testing.T) {
	evalA, evalB := uuid.New(), uuid.New()
	three, four, five := int16(3), int16(4), int16(5)
	rows := []StatRow{
		{EvaluationID: evalA, PositionCode: "P01", SectionTitle: "Block A - Core", ValueScale: &three},
		{EvaluationID: evalA, PositionCode: "P01", SectionTitle: "Block A - Core", ValueScale: &five},
		{EvaluationID: evalB, PositionCode: "P01", SectionTitle: "Block A - Core", ValueScale: &four},
		{EvaluationID: evalB, PositionCode: "P01", SectionTitle: "Closing remarks", ValueScale: &four},
		{EvaluationID: evalB, PositionCode: "P01", SectionTitle: "Block B", ValueScale: nil}, // unanswered
		{EvaluationID: evalA, PositionCode: "P02", SectionTitle: "Block B", ValueScale: &five},
	}

	stats := BlockStats(rows)
	require.Len(t, stats, 3)

	assert.Equal(t, "P01", stats[0].PositionCode)
	assert.Equal(t, "A", stats[0].Block)
	assert.True(t, stats[0].Avg.Equal(decimal.NewFromInt(4)), "avg %s", stats[0].Avg)
	assert.True(t, stats[0].Min.Equal(decimal.NewFromInt(3)))
	assert.True(t, stats[0].Max.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 2, stats[0].Evaluations)

	assert.Equal(t, "P01", stats[1].PositionCode)
	assert.Equal(t, UnknownBlock, stats[1].Block)
	assert.Equal(t, 1, stats[1].Evaluations)

	assert.Equal(t, "P02", stats[2].PositionCode)
	assert.Equal(t, "B", stats[2].Block)
	assert.Equal(t, 1, stats[2].Evaluations)
}
