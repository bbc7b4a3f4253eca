package intent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"can", "sleep"}, tokenize("Can't sleep!"))
	assert.Equal(t, []string{"self", "care"}, tokenize("self-care"))
	assert.Nil(t, tokenize("a b c"))
}

func TestAnalyze_StopWordsAndBigrams(t *testing.T) {
	assert.Equal(t, []string{"sleep"}, analyze("can't sleep"))
	assert.Equal(t, []string{"healthy", "habits", "healthy habits"}, analyze("healthy habits"))
	assert.Empty(t, analyze("down"))
}

func TestTransform_IsNormalized(t *testing.T) {
	m := fitTFIDF([]string{"anxiety relief", "anxiety", "sleep"})

	v := m.transform("anxiety relief tonight")
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	_, ok := v["tonight"]
	assert.False(t, ok)

	assert.Empty(t, m.transform("nothing known"))
}

func TestFitTFIDF_SmoothedIDF(t *testing.T) {
	m := fitTFIDF([]string{"anxiety", "anxiety", "sleep"})
	assert.InDelta(t, math.Log(4.0/3.0)+1, m.idf["anxiety"], 1e-12)
	assert.InDelta(t, math.Log(4.0/2.0)+1, m.idf["sleep"], 1e-12)
}

func TestCosine(t *testing.T) {
	a := vector{"x": 1}
	b := vector{"x": 0.6, "y": 0.8}
	assert.InDelta(t, 0.6, cosine(a, b), 1e-12)
	assert.Equal(t, 0.0, cosine(vector{}, b))
}
