package leadchat

// Intent is the visitor's stated purpose for the property search.
type Intent string

const (
	IntentUnset  Intent = ""
	IntentLiveIn Intent = "live_in"
	IntentInvest Intent = "invest"
)

// Timeline is the horizon the visitor gave for closing.
type Timeline string

const (
	TimelineUnset       Timeline = ""
	TimelineThisMonth   Timeline = "this_month"
	TimelineNext3Months Timeline = "next_3_months"
	TimelineUnspecified Timeline = "unspecified"
)

// Budget is the visitor's declared price range in USD.
type Budget string

const (
	BudgetUnset    Budget = ""
	BudgetUnder300 Budget = "under_300k"
	Budget300To500 Budget = "between_300_500k"
	BudgetOver500  Budget = "over_500k"
)

// Canonical quick-reply option labels, exactly as rendered in the widget.
const (
	OptionLiveIn   = "Vivir"
	OptionInvest   = "Inversión"
	OptionBrowsing = "Solo mirando"

	OptionThisMonth   = "Este mes"
	OptionNext3Months = "Próximos 3 meses"
	OptionNoDate      = "Sin fecha definida"

	OptionBudgetLow  = "< 300k"
	OptionBudgetMid  = "300k - 500k"
	OptionBudgetHigh = "> 500k"
)

var (
	IntentOptions   = []string{OptionLiveIn, OptionInvest, OptionBrowsing}
	TimelineOptions = []string{OptionThisMonth, OptionNext3Months, OptionNoDate}
	BudgetOptions   = []string{OptionBudgetLow, OptionBudgetMid, OptionBudgetHigh}
)

// IntentRecord accumulates the qualification answers for one visitor session.
// Fields are last-write-wins and never rolled back; the record lives and dies
// with the session, only a contact capture persists a snapshot of it.
type IntentRecord struct {
	Intent   Intent   `json:"intent"`
	Timeline Timeline `json:"timeline"`
	Budget   Budget   `json:"budget"`
}

// Qualified reports whether all three qualification fields are set.
func (r IntentRecord) Qualified() bool {
	return r.Intent != IntentUnset && r.Timeline != TimelineUnset && r.Budget != BudgetUnset
}

// IntentSnapshot is the persisted shape of an intent record: the canonical
// option labels the visitor saw, not the internal enum names.
type IntentSnapshot struct {
	Intent   string `json:"intent"`
	Timeline string `json:"timeline"`
	Budget   string `json:"budget"`
}

// Snapshot converts the record to its persisted label form. Unset fields map
// to the empty string.
func (r IntentRecord) Snapshot() IntentSnapshot {
	return IntentSnapshot{
		Intent:   r.Intent.Label(),
		Timeline: r.Timeline.Label(),
		Budget:   r.Budget.Label(),
	}
}

func (i Intent) Label() string {
	switch i {
	case IntentLiveIn:
		return OptionLiveIn
	case IntentInvest:
		return OptionInvest
	}
	return ""
}

func (t Timeline) Label() string {
	switch t {
	case TimelineThisMonth:
		return OptionThisMonth
	case TimelineNext3Months:
		return OptionNext3Months
	case TimelineUnspecified:
		return OptionNoDate
	}
	return ""
}

func (b Budget) Label() string {
	switch b {
	case BudgetUnder300:
		return OptionBudgetLow
	case Budget300To500:
		return OptionBudgetMid
	case BudgetOver500:
		return OptionBudgetHigh
	}
	return ""
}
