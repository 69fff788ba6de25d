package leadchat

import "strings"

// State is the explicit dialogue state, derived from which intent-record
// fields are already set.
type State int

const (
	StateAskIntent State = iota
	StateAskTimeline
	StateAskBudget
	StateAskContact
)

func (s State) String() string {
	switch s {
	case StateAskIntent:
		return "ask_intent"
	case StateAskTimeline:
		return "ask_timeline"
	case StateAskBudget:
		return "ask_budget"
	case StateAskContact:
		return "ask_contact"
	}
	return "unknown"
}

// StateFor derives the dialogue state from the record's field presence.
func StateFor(rec IntentRecord) State {
	switch {
	case rec.Intent == IntentUnset:
		return StateAskIntent
	case rec.Timeline == TimelineUnset:
		return StateAskTimeline
	case rec.Budget == BudgetUnset:
		return StateAskBudget
	}
	return StateAskContact
}

// Reply is one bot message plus the quick-reply options offered with it.
type Reply struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// Scripted bot messages. Spanish is the product language; the labels double
// as machine-matched values, so they are never localized.
const (
	greetingText    = "¡Hola! Soy el asistente de Punta360. ¿Estás buscando una propiedad para vivir o como inversión?"
	askTimelineText = "¡Genial! ¿Para cuándo te gustaría concretar?"
	askBudgetText   = "Perfecto. ¿En qué rango de presupuesto estás buscando? (USD)"
	askContactText  = "¡Excelente! Dejame tu WhatsApp o tu correo y un asesor te contacta con opciones a tu medida."
	genericText     = "Contame qué más te gustaría saber, o dejame tu WhatsApp o correo y un asesor de Punta360 te contacta."
	contactAckText  = "¡Gracias! Un asesor de Punta360 te va a contactar a la brevedad."
)

// Greeting is the opening bot message for a fresh session.
func Greeting() Reply {
	return Reply{Text: greetingText, Options: IntentOptions}
}

// ContactAck is the fixed acknowledgment sent after a contact capture.
func ContactAck() Reply {
	return Reply{Text: contactAckText}
}

// GenericReply is the catch-all invite used when no transition applies and no
// concierge is configured.
func GenericReply() Reply {
	return Reply{Text: genericText}
}

// Advance is the dialogue policy: a pure function mapping the last utterance
// and the current intent record to the next bot reply and the updated record.
// The boolean reports whether a scripted transition fired; when it is false
// the record is unchanged and the caller routes the utterance to the
// concierge (or the generic invite).
//
// Transitions are keyed on the current state and validated against the option
// set offered in that state; canonical-label containment is kept as a lenient
// fallback for typed text.
func Advance(utterance string, rec IntentRecord) (Reply, IntentRecord, bool) {
	switch StateFor(rec) {
	case StateAskIntent:
		if intent, ok := matchIntent(utterance); ok {
			rec.Intent = intent
			return Reply{Text: askTimelineText, Options: TimelineOptions}, rec, true
		}
	case StateAskTimeline:
		if timeline, ok := matchTimeline(utterance); ok {
			rec.Timeline = timeline
			return Reply{Text: askBudgetText, Options: BudgetOptions}, rec, true
		}
	case StateAskBudget:
		if budget, ok := matchBudget(utterance); ok {
			rec.Budget = budget
			return Reply{Text: askContactText}, rec, true
		}
	case StateAskContact:
		// Nothing scripted left to ask; everything non-contact falls through.
	}
	return GenericReply(), rec, false
}

func matchIntent(utterance string) (Intent, bool) {
	switch strings.TrimSpace(utterance) {
	case OptionLiveIn:
		return IntentLiveIn, true
	case OptionInvest:
		return IntentInvest, true
	case OptionBrowsing:
		return IntentUnset, false
	}
	if strings.Contains(utterance, OptionLiveIn) {
		return IntentLiveIn, true
	}
	if strings.Contains(utterance, OptionInvest) {
		return IntentInvest, true
	}
	return IntentUnset, false
}

func matchTimeline(utterance string) (Timeline, bool) {
	switch strings.TrimSpace(utterance) {
	case OptionThisMonth:
		return TimelineThisMonth, true
	case OptionNext3Months:
		return TimelineNext3Months, true
	case OptionNoDate:
		return TimelineUnspecified, true
	}
	switch {
	case strings.Contains(utterance, OptionNext3Months):
		return TimelineNext3Months, true
	case strings.Contains(utterance, OptionThisMonth):
		return TimelineThisMonth, true
	// Typed text mentioning a month or a date without a recognizable label
	// still answers the question, just without a usable horizon.
	case strings.Contains(utterance, "mes"), strings.Contains(utterance, "fecha"):
		return TimelineUnspecified, true
	}
	return TimelineUnset, false
}

func matchBudget(utterance string) (Budget, bool) {
	switch strings.TrimSpace(utterance) {
	case OptionBudgetLow:
		return BudgetUnder300, true
	case OptionBudgetMid:
		return Budget300To500, true
	case OptionBudgetHigh:
		return BudgetOver500, true
	}
	switch {
	case strings.Contains(utterance, OptionBudgetMid):
		return Budget300To500, true
	case strings.Contains(utterance, OptionBudgetLow):
		return BudgetUnder300, true
	case strings.Contains(utterance, OptionBudgetHigh):
		return BudgetOver500, true
	}
	// Typed ranges like "unos 400k" or "hasta 350k": keep only figures we can
	// place unambiguously; anything else goes to the concierge instead of
	// guessing a bucket.
	if strings.Contains(utterance, "k") {
		hasLow := strings.Contains(utterance, "300")
		hasHigh := strings.Contains(utterance, "500")
		switch {
		case hasLow && hasHigh:
			return Budget300To500, true
		case hasHigh:
			return BudgetOver500, true
		case hasLow:
			return BudgetUnder300, true
		}
	}
	return BudgetUnset, false
}
