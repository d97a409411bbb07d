package app

import "coffee-diagnosis/internal/domain/entity"

const recommendationHealthy = "La planta se encuentra en buen estado. Mantenga el plan de fertilización actual, " +
	"realice monitoreos mensuales y conserve la cobertura del suelo y la sombra regulada."

const recommendationFallback = "No fue posible determinar una recomendación específica. " +
	"Consulte a un especialista o al extensionista de su zona y tome una nueva fotografía con buena luz."

var nutrientRecommendations = map[entity.NutrientType]string{
	entity.NutrientNitrogen: "Aplicar urea (46% N) o nitrato de amonio: 150-300 kg de N/ha/año fraccionados en 3-4 aplicaciones " +
		"al suelo en época de lluvias, alrededor de la zona de goteo. Complementar con materia orgánica (pulpa de café compostada).",
	entity.NutrientPhosphorus: "Aplicar DAP (18-46-0) o superfosfato triple: 30-60 kg de P2O5/ha/año incorporado al suelo " +
		"cerca de las raíces. Corregir pH ácido con encalado si es inferior a 5.0.",
	entity.NutrientPotassium: "Aplicar cloruro de potasio (KCl 60%) o sulfato de potasio: 150-250 kg de K2O/ha/año " +
		"en 2-3 fracciones, prioritariamente antes y durante el llenado del grano.",
	entity.NutrientCalcium: "Aplicar cal dolomítica o cal agrícola: 1-2 t/ha según análisis de suelo, distribuida al voleo " +
		"2-3 meses antes de la fertilización. En foliar, nitrato de calcio al 1%.",
	entity.NutrientMagnesium: "Aplicar sulfato de magnesio (kieserita): 50-100 kg de MgO/ha/año al suelo, " +
		"o aspersión foliar de sulfato de magnesio al 2% cada 30 días hasta corregir.",
	entity.NutrientSulfur: "Aplicar sulfato de amonio o sulfato de potasio: 20-40 kg de S/ha/año al suelo " +
		"junto con la fertilización nitrogenada.",
	entity.NutrientIron: "Aspersión foliar de quelato de hierro (Fe-EDDHA) al 0.5%: 2-3 aplicaciones cada 15 días. " +
		"Revisar encharcamiento y exceso de encalado que bloquean su absorción.",
	entity.NutrientManganese: "Aspersión foliar de sulfato de manganeso al 0.5%: 2 aplicaciones separadas 20 días. " +
		"Evitar encalados excesivos que elevan el pH.",
	entity.NutrientZinc: "Aspersión foliar de sulfato de zinc al 0.3-0.5%: 2-3 aplicaciones al año, " +
		"preferiblemente al inicio de la brotación.",
	entity.NutrientBoron: "Aplicar bórax o ácido bórico: 1-2 kg de B/ha/año al suelo, o foliar al 0.3% antes de la floración. " +
		"No exceder la dosis por riesgo de toxicidad.",
	entity.NutrientCopper: "Aspersión foliar de oxicloruro de cobre o sulfato de cobre al 0.3%: 1-2 aplicaciones al año, " +
		"que además ayudan al control de la roya.",
}

var pestRecommendations = map[string]string{
	"broca": "Realizar recolección oportuna (re-re) de frutos maduros, sobremaduros y caídos. Instalar trampas con alcohol " +
		"etílico-metílico (12-16 por ha) y aplicar Beauveria bassiana cuando la infestación supere el 2%.",
	"minador": "Favorecer enemigos naturales y sombra regulada. Si más del 30% de las hojas presenta minas activas, " +
		"aplicar un insecticida sistémico autorizado siguiendo la etiqueta.",
	"cochinilla": "Eliminar hormigas asociadas, podar y destruir partes muy infestadas. Aplicar jabón potásico o " +
		"aceite agrícola al 1% dirigido a las colonias.",
	"arana_roja": "Aumentar la humedad en época seca y evitar polvo en caminos. Aplicar azufre mojable o acaricida " +
		"selectivo solo si hay daño generalizado.",
	"nematodos": "Usar patrones resistentes (Coffea canephora) en resiembras, aplicar materia orgánica y " +
		"eliminar plantas muy afectadas. Confirmar con análisis de raíces en laboratorio.",
}

var diseaseRecommendations = map[string]string{
	"roya": "Aplicar fungicida cúprico preventivo o triazol (ciproconazol) al aparecer los primeros síntomas, " +
		"repetir cada 30-45 días en época de lluvias. Renovar con variedades resistentes (Castillo, Colombia).",
	"ojo_de_gallo": "Regular la sombra y mejorar la aireación con podas. Aplicar fungicida cúprico en los focos " +
		"durante la época lluviosa.",
	"antracnosis": "Podar y destruir ramas afectadas, fertilizar de forma balanceada y aplicar fungicida " +
		"a base de cobre después de la poda.",
	"mal_de_hilachas": "Podar ramas afectadas y reducir sombra excesiva para mejorar la ventilación. " +
		"Aplicar fungicida cúprico en los focos.",
	"llaga_macana": "Evitar heridas en el tallo durante labores; proteger cortes con pasta cúprica y " +
		"eliminar plantas muertas con sus raíces.",
	"phoma": "Proteger las plantas del viento frío con barreras vivas y aplicar fungicida preventivo " +
		"en brotes nuevos durante la época fría.",
	"cercospora": "Corregir la nutrición (especialmente nitrógeno y potasio), regular la exposición solar y " +
		"aplicar fungicida cúprico si la incidencia supera el 10%.",
}

// Recommend возвращает агрономическую рекомендацию для результата классификации.
// Никогда не возвращает пустую строку.
func Recommend(result entity.ClassificationResult) string {
	if result.Nutrient != nil {
		if text, ok := nutrientRecommendations[*result.Nutrient]; ok {
			return text
		}
		return recommendationFallback
	}

	info, _ := lookupLabel(result.Identifier)
	key := normalizeLabel(result.Identifier)
	switch info.category {
	case entity.CategoryHealthy:
		return recommendationHealthy
	case entity.CategoryPest:
		if text, ok := pestRecommendations[key]; ok {
			return text
		}
	case entity.CategoryDisease:
		if text, ok := diseaseRecommendations[key]; ok {
			return text
		}
	case entity.CategoryNutrient:
		if text, ok := nutrientRecommendations[*info.nutrient]; ok {
			return text
		}
	}
	return recommendationFallback
}
