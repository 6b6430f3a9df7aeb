package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAnswerClearsSiblingVariants(t *testing.T) {
	item := EvaluationItem{QuestionType: QuestionScale}

	require.NoError(t, item.SetAnswer(ScaleAnswer(4)))
	require.NotNil(t, item.ValueScale)
	assert.Equal(t, int16(4), *item.ValueScale)
	assert.Nil(t, item.ValueYesNo)
	assert.Nil(t, item.ValueText)

	require.NoError(t, item.SetAnswer(TextAnswer("notes")))
	assert.Nil(t, item.ValueScale)
	assert.Nil(t, item.ValueYesNo)
	require.NotNil(t, item.ValueText)
	assert.Equal(t, "notes", *item.ValueText)

	require.NoError(t, item.SetAnswer(YesNoAnswer(false)))
	assert.Nil(t, item.ValueScale)
	assert.Nil(t, item.ValueText)
	require.NotNil(t, item.ValueYesNo)
	assert.False(t, *item.ValueYesNo)

	require.NoError(t, item.SetAnswer(EmptyAnswer()))
	assert.Nil(t, item.ValueScale)
	assert.Nil(t, item.ValueYesNo)
	assert.Nil(t, item.ValueText)
}

func TestSetAnswerScaleRange(t *testing.T) {
	item := EvaluationItem{QuestionType: QuestionScale}
	assert.Error(t, item.SetAnswer(ScaleAnswer(0)))
	assert.Error(t, item.SetAnswer(ScaleAnswer(6)))
	assert.NoError(t, item.SetAnswer(ScaleAnswer(1)))
	assert.NoError(t, item.SetAnswer(ScaleAnswer(5)))
}

func TestIsComplete(t *testing.T) {
	scale := EvaluationItem{QuestionType: QuestionScale}
	assert.False(t, scale.IsComplete())
	require.NoError(t, scale.SetAnswer(ScaleAnswer(3)))
	assert.True(t, scale.IsComplete())

	yesNo := EvaluationItem{QuestionType: QuestionYesNo}
	assert.False(t, yesNo.IsComplete())
	require.NoError(t, yesNo.SetAnswer(YesNoAnswer(false)))
	assert.True(t, yesNo.IsComplete(), "an explicit NO counts as answered")

	text := EvaluationItem{QuestionType: QuestionText}
	assert.False(t, text.IsComplete())
	require.NoError(t, text.SetAnswer(TextAnswer("   \t ")))
	assert.False(t, text.IsComplete(), "whitespace-only text is not an answer")
	require.NoError(t, text.SetAnswer(TextAnswer("solid work")))
	assert.True(t, text.IsComplete())

	unknown := EvaluationItem{QuestionType: "RANKING"}
	require.NoError(t, unknown.SetAnswer(TextAnswer("x")))
	assert.False(t, unknown.IsComplete(), "unknown question types never complete")
}

func TestAnswerDisplay(t *testing.T) {
	item := EvaluationItem{QuestionType: QuestionScale}
	assert.Equal(t, "", item.AnswerDisplay())

	require.NoError(t, item.SetAnswer(ScaleAnswer(5)))
	assert.Equal(t, "5", item.AnswerDisplay())

	require.NoError(t, item.SetAnswer(YesNoAnswer(true)))
	assert.Equal(t, "YES", item.AnswerDisplay())
	require.NoError(t, item.SetAnswer(YesNoAnswer(false)))
	assert.Equal(t, "NO", item.AnswerDisplay())

	require.NoError(t, item.SetAnswer(TextAnswer("free text")))
	assert.Equal(t, "free text", item.AnswerDisplay())
}

func TestAnswerRoundTrip(t *testing.T) {
	item := EvaluationItem{QuestionType: QuestionYesNo}
	require.NoError(t, item.SetAnswer(YesNoAnswer(true)))

	got := item.Answer()
	assert.Equal(t, AnswerYesNo, got.Kind)
	assert.True(t, got.YesNo)

	require.NoError(t, item.SetAnswer(EmptyAnswer()))
	assert.Equal(t, AnswerEmpty, item.Answer().Kind)
}
