package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coffee-diagnosis/internal/domain/entity"
)

func TestRecommend_EveryNutrientHasGuidance(t *testing.T) {
	for n := range nutrientRecommendations {
		text := Recommend(entity.ClassificationResult{Identifier: string(n), Nutrient: entity.NutrientPtr(n)})
		assert.NotEqual(t, recommendationFallback, text, n)
		assert.NotEmpty(t, text)
	}
	for _, info := range vocabulary {
		if info.nutrient != nil {
			assert.Contains(t, nutrientRecommendations, *info.nutrient)
		}
	}
}

func TestRecommend_NonNutrient(t *testing.T) {
	assert.Equal(t, recommendationHealthy, Recommend(entity.ClassificationResult{Identifier: "Saludable"}))
	assert.Equal(t, pestRecommendations["broca"], Recommend(entity.ClassificationResult{Identifier: "broca"}))
	assert.Equal(t, diseaseRecommendations["roya"], Recommend(entity.ClassificationResult{Identifier: "Roya"}))
	assert.Equal(t, diseaseRecommendations["ojo_de_gallo"], Recommend(entity.ClassificationResult{Identifier: "ojo de gallo"}))
}

func TestRecommend_Fallback(t *testing.T) {
	assert.Equal(t, recommendationFallback, Recommend(entity.ClassificationResult{Identifier: "granizo"}))
	assert.Equal(t, recommendationFallback, Recommend(entity.ClassificationResult{Identifier: ""}))
	assert.Equal(t, recommendationFallback,
		Recommend(entity.ClassificationResult{Nutrient: entity.NutrientPtr(entity.NutrientType("molybdenum"))}))
}

func TestRecommend_PestsAndDiseasesCovered(t *testing.T) {
	for key, info := range vocabulary {
		switch info.category {
		case entity.CategoryPest:
			assert.Contains(t, pestRecommendations, key)
		case entity.CategoryDisease:
			assert.Contains(t, diseaseRecommendations, key)
		}
	}
}
