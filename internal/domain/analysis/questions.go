package analysis

// Category is one of the five dimensions a quantum analysis scores.
type Category string

const (
	CategoryMental     Category = "mental"
	CategoryEmocional  Category = "emocional"
	CategoryEnergetico Category = "energetico"
	CategoryFisico     Category = "fisico"
	CategoryEspiritual Category = "espiritual"
)

// Categories is the fixed tab order of the questionnaire.
var Categories = []Category{
	CategoryMental,
	CategoryEmocional,
	CategoryEnergetico,
	CategoryFisico,
	CategoryEspiritual,
}

// CategoryLabels maps each dimension to its display title.
var CategoryLabels = map[Category]string{
	CategoryMental:     "Mental",
	CategoryEmocional:  "Emocional",
	CategoryEnergetico: "Energético",
	CategoryFisico:     "Físico",
	CategoryEspiritual: "Espiritual",
}

// Option is one selectable answer, valued 1 (worst) to 5 (best).
type Option struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Question belongs to exactly one category.
type Question struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Options  []Option `json:"options"`
}

var scale = []Option{
	{Label: "Nunca", Value: 1},
	{Label: "Raramente", Value: 2},
	{Label: "Às vezes", Value: 3},
	{Label: "Frequentemente", Value: 4},
	{Label: "Sempre", Value: 5},
}

func q(id string, cat Category, text string) Question {
	return Question{ID: id, Category: cat, Text: text, Options: scale}
}

// Catalog is the full fixed question set, five per category.
var Catalog = []Question{
	q("mental_1", CategoryMental, "Consigo manter o foco nas minhas atividades diárias."),
	q("mental_2", CategoryMental, "Minha memória funciona bem no dia a dia."),
	q("mental_3", CategoryMental, "Tomo decisões com clareza e segurança."),
	q("mental_4", CategoryMental, "Sinto minha mente tranquila, sem pensamentos acelerados."),
	q("mental_5", CategoryMental, "Durmo bem e acordo com a mente descansada."),

	q("emocional_1", CategoryEmocional, "Lido bem com situações de estresse."),
	q("emocional_2", CategoryEmocional, "Expresso meus sentimentos com facilidade."),
	q("emocional_3", CategoryEmocional, "Sinto-me emocionalmente estável ao longo do dia."),
	q("emocional_4", CategoryEmocional, "Mantenho relacionamentos saudáveis e equilibrados."),
	q("emocional_5", CategoryEmocional, "Consigo perdoar e deixar ir mágoas do passado."),

	q("energetico_1", CategoryEnergetico, "Acordo com energia e disposição."),
	q("energetico_2", CategoryEnergetico, "Mantenho minha energia estável durante o dia."),
	q("energetico_3", CategoryEnergetico, "Sinto-me vitalizado(a) após períodos de descanso."),
	q("energetico_4", CategoryEnergetico, "Ambientes e pessoas não drenam minha energia facilmente."),
	q("energetico_5", CategoryEnergetico, "Sinto fluidez e leveza no meu corpo energético."),

	q("fisico_1", CategoryFisico, "Meu corpo está livre de dores frequentes."),
	q("fisico_2", CategoryFisico, "Minha digestão funciona bem."),
	q("fisico_3", CategoryFisico, "Pratico atividade física regularmente."),
	q("fisico_4", CategoryFisico, "Minha alimentação é equilibrada."),
	q("fisico_5", CategoryFisico, "Minha imunidade é boa, raramente fico doente."),

	q("espiritual_1", CategoryEspiritual, "Sinto conexão com algo maior do que eu."),
	q("espiritual_2", CategoryEspiritual, "Tenho clareza sobre meu propósito de vida."),
	q("espiritual_3", CategoryEspiritual, "Reservo momentos para práticas contemplativas ou de silêncio."),
	q("espiritual_4", CategoryEspiritual, "Sinto gratidão pela minha vida como ela é."),
	q("espiritual_5", CategoryEspiritual, "Confio no fluxo da vida mesmo em momentos difíceis."),
}

// QuestionsByCategory returns the catalog questions of one category, in
// catalog order.
func QuestionsByCategory(cat Category) []Question {
	var out []Question
	for _, question := range Catalog {
		if question.Category == cat {
			out = append(out, question)
		}
	}
	return out
}
