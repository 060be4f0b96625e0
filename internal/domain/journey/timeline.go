package journey

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/domain/technique"
)

// TimelineStatus tags the aggregate so callers can tell "nothing happened
// yet" apart from "still fetching".
type TimelineStatus string

const (
	TimelineLoading TimelineStatus = "loading"
	TimelineEmpty   TimelineStatus = "empty"
	TimelineReady   TimelineStatus = "ready"
)

// TimelineItem is one render-ready entry of a patient's narrative.
type TimelineItem struct {
	EventID     uuid.UUID  `json:"event_id"`
	EventType   EventType  `json:"event_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
	PhaseEnd    *time.Time `json:"phase_end_date,omitempty"`
}

// Timeline is the chronologically ordered narrative of a patient's journey.
type Timeline struct {
	Status TimelineStatus `json:"status"`
	Items  []TimelineItem `json:"items"`
}

// LoadingTimeline is the placeholder callers hold while events are still in
// flight. It is never what BuildTimeline returns.
func LoadingTimeline() Timeline {
	return Timeline{Status: TimelineLoading, Items: []TimelineItem{}}
}

const unknownTechniqueTitle = "Técnica Desconhecida"

// enrichedEvaluation pairs an evaluation with its resolved technique title.
type enrichedEvaluation struct {
	eval  *technique.Evaluation
	title string
}

// BuildTimeline merges journey events, technique evaluations and the
// technique knowledge base into a display-ready sequence, most recent
// first. It is pure: same inputs, same output, no hidden state, and it is
// recomputed on every call.
func BuildTimeline(events []*Event, evaluations []*technique.Evaluation, knowledgeBase []*technique.Technique) Timeline {
	if len(events) == 0 {
		return Timeline{Status: TimelineEmpty, Items: []TimelineItem{}}
	}

	titles := make(map[uuid.UUID]string, len(knowledgeBase))
	for _, t := range knowledgeBase {
		titles[t.ID] = t.Title
	}

	enriched := make(map[uuid.UUID]enrichedEvaluation, len(evaluations))
	for _, e := range evaluations {
		title, ok := titles[e.KnowledgeBaseID]
		if !ok {
			title = unknownTechniqueTitle
		}
		enriched[e.ID] = enrichedEvaluation{eval: e, title: title}
	}

	sorted := make([]*Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	items := make([]TimelineItem, 0, len(sorted))
	for _, e := range sorted {
		title, description := describe(e, enriched)
		items = append(items, TimelineItem{
			EventID:     e.ID,
			EventType:   e.EventType,
			Title:       title,
			Description: description,
			Timestamp:   e.Timestamp,
			PhaseEnd:    e.PhaseEndDate,
		})
	}
	return Timeline{Status: TimelineReady, Items: items}
}

func describe(e *Event, enriched map[uuid.UUID]enrichedEvaluation) (string, string) {
	switch e.EventType {
	case EventAnalysisGenerated:
		title := "Análise Quântica 5D Realizada"
		if e.RelatedAnalysisID != nil {
			return title, fmt.Sprintf("Análise registrada (ID: %s)", shortID(*e.RelatedAnalysisID))
		}
		return title, "Análise registrada"

	case EventEvaluationCompleted:
		techTitle := unknownTechniqueTitle
		var excerpt string
		if e.RelatedEvaluationID != nil {
			if ee, ok := enriched[*e.RelatedEvaluationID]; ok {
				techTitle = ee.title
				excerpt = interpretationExcerpt(ee.eval)
			}
		}
		title := "Avaliação de Técnica: " + techTitle
		if excerpt != "" {
			return title, excerpt
		}
		return title, "Avaliação concluída"

	default:
		if desc, ok := e.EventData["description"].(string); ok && desc != "" {
			return humanize(string(e.EventType)), desc
		}
		return humanize(string(e.EventType)),
			"Registrado em " + e.Timestamp.Format("02/01/2006 15:04")
	}
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// interpretationExcerpt pulls up to 50 characters of the evaluation's
// interpretacao_geral result, when present.
func interpretationExcerpt(e *technique.Evaluation) string {
	if e == nil || e.EvaluationResults == nil {
		return ""
	}
	raw, ok := e.EvaluationResults["interpretacao_geral"]
	if !ok {
		return ""
	}
	text, ok := raw.(string)
	if !ok || text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return text
}

// humanize turns an event-type enum value into a display title: separators
// become spaces and the first letter is capitalized.
func humanize(eventType string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(eventType)
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
