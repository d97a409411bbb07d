package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"coffee-diagnosis/internal/domain/entity"
)

// labelInfo описывает метку из словаря модели
type labelInfo struct {
	category entity.LabelCategory
	nutrient *entity.NutrientType
	display  string
}

func nutrientLabel(n entity.NutrientType) labelInfo {
	return labelInfo{category: entity.CategoryNutrient, nutrient: entity.NutrientPtr(n), display: n.DisplayName()}
}

// vocabulary ключи хранятся в нормализованном виде, см. normalizeLabel.
var vocabulary = map[string]labelInfo{
	"saludable": {category: entity.CategoryHealthy, display: "Planta saludable"},
	"sano":      {category: entity.CategoryHealthy, display: "Planta saludable"},
	"healthy":   {category: entity.CategoryHealthy, display: "Planta saludable"},

	"broca":      {category: entity.CategoryPest, display: "Broca del café"},
	"minador":    {category: entity.CategoryPest, display: "Minador de la hoja"},
	"cochinilla": {category: entity.CategoryPest, display: "Cochinilla"},
	"arana_roja": {category: entity.CategoryPest, display: "Araña roja"},
	"nematodos":  {category: entity.CategoryPest, display: "Nematodos"},

	"roya":            {category: entity.CategoryDisease, display: "Roya del café"},
	"ojo_de_gallo":    {category: entity.CategoryDisease, display: "Ojo de gallo"},
	"antracnosis":     {category: entity.CategoryDisease, display: "Antracnosis"},
	"mal_de_hilachas": {category: entity.CategoryDisease, display: "Mal de hilachas"},
	"llaga_macana":    {category: entity.CategoryDisease, display: "Llaga macana"},
	"phoma":           {category: entity.CategoryDisease, display: "Phoma"},
	"cercospora":      {category: entity.CategoryDisease, display: "Mancha de hierro (Cercospora)"},

	"nitrogeno":  nutrientLabel(entity.NutrientNitrogen),
	"nitrogen":   nutrientLabel(entity.NutrientNitrogen),
	"fosforo":    nutrientLabel(entity.NutrientPhosphorus),
	"phosphorus": nutrientLabel(entity.NutrientPhosphorus),
	"potasio":    nutrientLabel(entity.NutrientPotassium),
	"potassium":  nutrientLabel(entity.NutrientPotassium),
	"calcio":     nutrientLabel(entity.NutrientCalcium),
	"calcium":    nutrientLabel(entity.NutrientCalcium),
	"magnesio":   nutrientLabel(entity.NutrientMagnesium),
	"magnesium":  nutrientLabel(entity.NutrientMagnesium),
	"azufre":     nutrientLabel(entity.NutrientSulfur),
	"sulfur":     nutrientLabel(entity.NutrientSulfur),
	"hierro":     nutrientLabel(entity.NutrientIron),
	"iron":       nutrientLabel(entity.NutrientIron),
	"manganeso":  nutrientLabel(entity.NutrientManganese),
	"manganese":  nutrientLabel(entity.NutrientManganese),
	"zinc":       nutrientLabel(entity.NutrientZinc),
	"boro":       nutrientLabel(entity.NutrientBoron),
	"boron":      nutrientLabel(entity.NutrientBoron),
	"cobre":      nutrientLabel(entity.NutrientCopper),
	"copper":     nutrientLabel(entity.NutrientCopper),
}

var deficiencyPrefixes = []string{"deficiencia_de_", "deficiencia_", "deficiency_", "falta_de_"}

// lookupLabel ищет метку в словаре без учёта регистра, диакритики и разделителей.
func lookupLabel(label string) (labelInfo, bool) {
	key := normalizeLabel(label)
	if info, ok := vocabulary[key]; ok {
		return info, true
	}
	for _, prefix := range deficiencyPrefixes {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			if info, ok := vocabulary[rest]; ok && info.category == entity.CategoryNutrient {
				return info, true
			}
		}
	}
	return labelInfo{category: entity.CategoryUnknown}, false
}

// displayLabel возвращает читаемое название метки.
func displayLabel(label string) string {
	if info, ok := lookupLabel(label); ok {
		return info.display
	}
	return label
}

func normalizeLabel(label string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, label)
	if err != nil {
		folded = label
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' {
			return '_'
		}
		return r
	}, folded)
}
