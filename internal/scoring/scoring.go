// Package scoring holds the pure score computations: the completion average
// that feeds Evaluation.FinalScore at submit, and the legacy weighted block
// model still exposed through the statistics surface. The two paths compute
// different numbers on purpose; neither is folded into the other.
package scoring

import (
	"regexp"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadilmartias/evaltrack/internal/model"
)

// UnknownBlock is the sentinel for section titles with no block letter.
const UnknownBlock = "UNK"

var blockPattern = regexp.MustCompile(`(?i)\bblock\s+([a-e])\b`)

// BlockCode extracts the block letter from a section title ("Block A -
// Teamwork" → "A"). Titles without a recognizable letter map to UNK.
func BlockCode(sectionTitle string) string {
	m := blockPattern.FindStringSubmatch(sectionTitle)
	if m == nil {
		return UnknownBlock
	}
	return string(m[1][0] &^ 0x20)
}

// CompletionScore averages the answered SCALE_1_5 items, rounded to two
// decimal places. Returns nil when no scale item has a value.
func CompletionScore(items []model.EvaluationItem) *decimal.Decimal {
	sum := decimal.Zero
	count := int64(0)
	for i := range items {
		if items[i].QuestionType != model.QuestionScale || items[i].ValueScale == nil {
			continue
		}
		sum = sum.Add(decimal.NewFromInt(int64(*items[i].ValueScale)))
		count++
	}
	if count == 0 {
		return nil
	}
	avg := sum.Div(decimal.NewFromInt(count)).Round(2)
	return &avg
}

// WeightedBlockScore computes the legacy weighted total over scored template
// items. Within a block, explicit item weights are normalized to sum to 1;
// if any item lacks a weight the whole block falls back to equal weights.
// Unscored items contribute 0. The evaluation-level total is
// Σ(block_score × weight_percent / 100). Blocks without items are skipped.
func WeightedBlockScore(blocks []model.TemplateBlock, scores map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for bi := range blocks {
		block := &blocks[bi]
		if len(block.Items) == 0 {
			continue
		}

		items := make([]model.TemplateItem, len(block.Items))
		copy(items, block.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })

		weights := make([]decimal.Decimal, len(items))
		explicit := true
		weightSum := decimal.Zero
		for i := range items {
			if items[i].ItemWeight == nil {
				explicit = false
				break
			}
			weights[i] = *items[i].ItemWeight
			weightSum = weightSum.Add(weights[i])
		}

		if !explicit {
			n := decimal.NewFromInt(int64(len(items)))
			equal := decimal.NewFromInt(1).Div(n)
			for i := range weights {
				weights[i] = equal
			}
		} else {
			if weightSum.IsZero() {
				weightSum = decimal.NewFromInt(1)
			}
			for i := range weights {
				weights[i] = weights[i].Div(weightSum)
			}
		}

		blockScore := decimal.Zero
		for i := range items {
			score, ok := scores[items[i].ID]
			if !ok {
				continue
			}
			blockScore = blockScore.Add(score.Mul(weights[i]))
		}

		total = total.Add(blockScore.Mul(block.WeightPercent.Div(hundred)))
	}
	return total
}

// StatRow is one scale item joined with its evaluation's frozen position,
// the shape the stats sheet aggregates over.
type StatRow struct {
	EvaluationID uuid.UUID
	PositionCode string
	SectionTitle string
	ValueScale   *int16
}

// BlockStat summarizes answered scale items for one (position, block) pair.
type BlockStat struct {
	PositionCode string
	Block        string
	Avg          decimal.Decimal
	Min          decimal.Decimal
	Max          decimal.Decimal
	Evaluations  int
}

// BlockStats aggregates answered scale rows per (position_code, block):
// arithmetic mean (2dp), min, max and the distinct evaluation count.
// Unanswered rows are ignored. Output is sorted by (position_code, block).
func BlockStats(rows []StatRow) []BlockStat {
	type acc struct {
		sum   decimal.Decimal
		count int64
		min   decimal.Decimal
		max   decimal.Decimal
		evals map[uuid.UUID]struct{}
	}
	type key struct{ position, block string }

	groups := make(map[key]*acc)
	for i := range rows {
		if rows[i].ValueScale == nil {
			continue
		}
		k := key{rows[i].PositionCode, BlockCode(rows[i].SectionTitle)}
		v := decimal.NewFromInt(int64(*rows[i].ValueScale))
		g, ok := groups[k]
		if !ok {
			g = &acc{min: v, max: v, evals: make(map[uuid.UUID]struct{})}
			groups[k] = g
		}
		g.sum = g.sum.Add(v)
		g.count++
		if v.LessThan(g.min) {
			g.min = v
		}
		if v.GreaterThan(g.max) {
			g.max = v
		}
		g.evals[rows[i].EvaluationID] = struct{}{}
	}

	stats := make([]BlockStat, 0, len(groups))
	for k, g := range groups {
		stats = append(stats, BlockStat{
			PositionCode: k.position,
			Block:        k.block,
			Avg:          g.sum.Div(decimal.NewFromInt(g.count)).Round(2),
			Min:          g.min,
			Max:          g.max,
			Evaluations:  len(g.evals),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].PositionCode != stats[j].PositionCode {
			return stats[i].PositionCode < stats[j].PositionCode
		}
		return stats[i].Block < stats[j].Block
	})
	return stats
}
