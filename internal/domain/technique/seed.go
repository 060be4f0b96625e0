package technique

import "encoding/json"

func rawDoc(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func strPtr(s string) *string { return &s }

func num(f float64) *float64 { return &f }

// starterSet is the predefined technique catalog offered to every new
// therapist account. Seeding is idempotent per user: entries whose id_key
// already exists are skipped.
var starterSet = []*Technique{
	{
		IDKey:       "cromoterapia",
		Title:       "Cromoterapia",
		Category:    "Terapias Vibracionais",
		Type:        "energetica",
		Description: strPtr("Uso terapêutico das cores para reequilibrar os centros energéticos."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{
				"Cada cor carrega uma frequência vibracional específica",
				"O desequilíbrio energético se reflete em preferências e aversões cromáticas",
			},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Banho de luz colorida", "Visualização cromática guiada"},
		}),
		TargetConditions:  []string{"ansiedade", "insônia", "fadiga"},
		Contraindications: strPtr("Fotossensibilidade severa."),
		EvaluationSchema: Schema{
			"cor_predominante": {Label: "Cor predominante", Kind: FieldSelect,
				Options: []string{"vermelho", "laranja", "amarelo", "verde", "azul", "violeta"}},
			"nivel_resposta": {Label: "Nível de resposta (1-10)", Kind: FieldNumber, Min: num(1), Max: num(10), Step: num(1)},
			"observacoes":    {Label: "Observações", Kind: FieldTextarea},
		},
	},
	{
		IDKey:       "reiki_usui",
		Title:       "Reiki Usui",
		Category:    "Terapias Energéticas",
		Type:        "energetica",
		Description: strPtr("Canalização de energia vital através da imposição de mãos."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{
				"A energia vital flui através do terapeuta para o paciente",
				"Os cinco princípios do Reiki orientam a prática diária",
			},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Imposição de mãos nas posições tradicionais", "Tratamento à distância"},
		}),
		TargetConditions: []string{"estresse", "dores crônicas", "desequilíbrio emocional"},
		EvaluationSchema: Schema{
			"sensacao_relatada": {Label: "Sensação relatada", Kind: FieldSelect,
				Options: []string{"calor", "frio", "formigamento", "leveza", "nenhuma"}},
			"intensidade":        {Label: "Intensidade percebida (1-5)", Kind: FieldNumber, Min: num(1), Max: num(5), Step: num(1)},
			"interpretacao_geral": {Label: "Interpretação geral", Kind: FieldTextarea},
		},
	},
	{
		IDKey:       "florais_de_bach",
		Title:       "Florais de Bach",
		Category:    "Terapias Vibracionais",
		Type:        "vibracional",
		Description: strPtr("Essências florais para harmonização de estados emocionais."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{"Cada essência corresponde a um estado emocional específico"},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Entrevista de seleção de essências", "Fórmula personalizada de até 7 florais"},
		}),
		TargetConditions:  []string{"medo", "incerteza", "solidão", "hipersensibilidade"},
		Contraindications: strPtr("Nenhuma conhecida; atenção ao veículo alcoólico."),
		EvaluationSchema: Schema{
			"estado_emocional": {Label: "Estado emocional predominante", Kind: FieldText},
			"essencias":        {Label: "Essências selecionadas", Kind: FieldTextarea},
			"adesao":           {Label: "Adesão ao uso (1-10)", Kind: FieldNumber, Min: num(1), Max: num(10), Step: num(1)},
		},
	},
	{
		IDKey:       "meditacao_guiada",
		Title:       "Meditação Guiada",
		Category:    "Práticas Mentais",
		Type:        "mental",
		Description: strPtr("Condução verbal a estados meditativos profundos."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{"A atenção dirigida reorganiza padrões mentais"},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Escaneamento corporal", "Visualização de cenários", "Respiração consciente"},
		}),
		TargetConditions: []string{"ansiedade", "insônia", "falta de foco"},
		EvaluationSchema: Schema{
			"profundidade": {Label: "Profundidade alcançada", Kind: FieldSelect,
				Options: []string{"superficial", "moderada", "profunda"}},
			"duracao_minutos": {Label: "Duração (minutos)", Kind: FieldNumber, Min: num(5), Max: num(90), Step: num(5)},
			"relato":          {Label: "Relato da experiência", Kind: FieldTextarea},
		},
	},
	{
		IDKey:       "radiestesia",
		Title:       "Radiestesia",
		Category:    "Diagnóstico Energético",
		Type:        "diagnostica",
		Description: strPtr("Medição de padrões energéticos com pêndulo e gráficos."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{"Todo organismo emite um campo mensurável"},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Medição com pêndulo", "Gráficos radiestésicos de equilíbrio"},
		}),
		TargetConditions: []string{"avaliação energética geral"},
		EvaluationSchema: Schema{
			"percentual_vital": {Label: "Percentual vital medido", Kind: FieldNumber, Min: num(0), Max: num(100), Step: num(1)},
			"chakra_alterado":  {Label: "Chakra mais alterado", Kind: FieldText},
			"observacoes":      {Label: "Observações", Kind: FieldTextarea},
		},
	},
	{
		IDKey:       "aromaterapia",
		Title:       "Aromaterapia",
		Category:    "Terapias Naturais",
		Type:        "natural",
		Description: strPtr("Óleos essenciais aplicados para fins terapêuticos."),
		CorePrinciples: rawDoc(map[string]interface{}{
			"principios": []string{"Compostos aromáticos agem sobre o sistema límbico"},
		}),
		TechniquesPractices: rawDoc(map[string]interface{}{
			"praticas": []string{"Inalação direta", "Difusão ambiental", "Aplicação tópica diluída"},
		}),
		TargetConditions:  []string{"estresse", "dores de cabeça", "alterações de humor"},
		Contraindications: strPtr("Gestantes e pessoas com epilepsia exigem seleção criteriosa de óleos."),
		EvaluationSchema: Schema{
			"oleo_utilizado": {Label: "Óleo essencial utilizado", Kind: FieldText},
			"via":            {Label: "Via de aplicação", Kind: FieldSelect, Options: []string{"inalação", "difusão", "tópica"}},
			"resposta":       {Label: "Resposta observada", Kind: FieldTextarea},
		},
	},
}
