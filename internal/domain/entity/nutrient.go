package entity

// NutrientType элемент питания, дефицит которого распознаёт модель
type NutrientType string

const (
	NutrientNitrogen   NutrientType = "nitrogen"
	NutrientPhosphorus NutrientType = "phosphorus"
	NutrientPotassium  NutrientType = "potassium"
	NutrientCalcium    NutrientType = "calcium"
	NutrientMagnesium  NutrientType = "magnesium"
	NutrientSulfur     NutrientType = "sulfur"
	NutrientIron       NutrientType = "iron"
	NutrientManganese  NutrientType = "manganese"
	NutrientZinc       NutrientType = "zinc"
	NutrientBoron      NutrientType = "boron"
	NutrientCopper     NutrientType = "copper"
)

var nutrientNames = map[NutrientType]string{
	NutrientNitrogen:   "Nitrógeno",
	NutrientPhosphorus: "Fósforo",
	NutrientPotassium:  "Potasio",
	NutrientCalcium:    "Calcio",
	NutrientMagnesium:  "Magnesio",
	NutrientSulfur:     "Azufre",
	NutrientIron:       "Hierro",
	NutrientManganese:  "Manganeso",
	NutrientZinc:       "Zinc",
	NutrientBoron:      "Boro",
	NutrientCopper:     "Cobre",
}

// DisplayName возвращает название элемента для отчётов.
func (n NutrientType) DisplayName() string {
	if name, ok := nutrientNames[n]; ok {
		return name
	}
	return string(n)
}

// Valid проверяет, что значение входит в словарь.
func (n NutrientType) Valid() bool {
	_, ok := nutrientNames[n]
	return ok
}

// NutrientPtr возвращает указатель на значение, удобно для ClassificationResult.
func NutrientPtr(n NutrientType) *NutrientType {
	return &n
}
