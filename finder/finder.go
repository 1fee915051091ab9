package finder

import (
	"math"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/mask"
	"github.com/hupe1980/pairsel/model"
)

// Other returns the lowest masked index that is not the pair's second object.
// It returns NotFound for an empty mask, a pair without a second object, or a
// mask holding only that object.
func Other(m *mask.Mask, pair model.Pair) model.Index {
	second, ok := pair.Second.Get()
	if !ok || m.IsEmpty() {
		return model.NotFound
	}
	rest := m.Without(second).Nonzero()
	if len(rest) == 0 {
		return model.NotFound
	}
	return model.Found(rest[0])
}

// Best returns the candidate with the highest score. Candidates are scanned in
// list order and only strict improvements replace the current best, so the
// first of several equal scores wins. NaN scores never win.
func Best(cands []int, score []float64) (model.Index, error) {
	return best(cands, func(i int) (float64, error) {
		if i < 0 || i >= len(score) {
			return 0, &collection.IndexError{Column: "score", Index: i, Len: len(score)}
		}
		return score[i], nil
	})
}

// BestRatio returns the candidate with the highest num/(num+den).
func BestRatio(cands []int, num, den []float64) (model.Index, error) {
	return best(cands, func(i int) (float64, error) {
		if i < 0 || i >= len(num) {
			return 0, &collection.IndexError{Column: "numerator", Index: i, Len: len(num)}
		}
		if i >= len(den) {
			return 0, &collection.IndexError{Column: "denominator", Index: i, Len: len(den)}
		}
		return num[i] / (num[i] + den[i]), nil
	})
}

// BestColumn is Best over a named column of coll.
func BestColumn(coll *collection.Collection, cands []int, column string) (model.Index, error) {
	score, err := coll.Column(column)
	if err != nil {
		return model.NotFound, err
	}
	idx, err := Best(cands, score)
	return idx, withCollection(err, coll.Name, map[string]string{"score": column})
}

// BestRatioColumns is BestRatio over two named columns of coll.
func BestRatioColumns(coll *collection.Collection, cands []int, numColumn, denColumn string) (model.Index, error) {
	num, err := coll.Column(numColumn)
	if err != nil {
		return model.NotFound, err
	}
	den, err := coll.Column(denColumn)
	if err != nil {
		return model.NotFound, err
	}
	idx, err := BestRatio(cands, num, den)
	return idx, withCollection(err, coll.Name, map[string]string{"numerator": numColumn, "denominator": denColumn})
}

func best(cands []int, score func(i int) (float64, error)) (model.Index, error) {
	found := model.NotFound
	top := math.Inf(-1)
	for _, i := range cands {
		s, err := score(i)
		if err != nil {
			return model.NotFound, err
		}
		if s > top {
			found, top = model.Found(i), s
		}
	}
	return found, nil
}

// withCollection names the collection and column of an index error raised on
// bare score slices.
func withCollection(err error, name string, columns map[string]string) error {
	if ie, ok := err.(*collection.IndexError); ok {
		ie.Collection = name
		if c, ok := columns[ie.Column]; ok {
			ie.Column = c
		}
	}
	return err
}
