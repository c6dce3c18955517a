package contract

// ActionType tells the engine whether the turn was started by a UI button
// or is a free-text continuation of a running flow.
type ActionType string

const (
	ActionButton ActionType = "button"
	ActionText   ActionType = "text"
)

// Button names sent by the chat front end. These are user-visible labels,
// the front end sends them verbatim.
const (
	ButtonKidsAge      = "Уточнить возраст ребёнка"
	ButtonRentPrice    = "Рассчитать стоимость аренды"
	ButtonBookTrial    = "Записаться на пробное занятие"
	ButtonEscalate     = "Передать администратору"
	ButtonViewSchedule = "Посмотреть расписание"
)

// Scenario labels understood by the idle-restart branch.
const (
	ScenarioKids    = "Детские группы"
	ScenarioRent    = "Аренда зала"
	ScenarioBooking = "Запись на занятие"
)

// Intent labels attached to every reply.
const (
	IntentAskAge         = "ask_age"
	IntentCalculateRent  = "calculate_rental"
	IntentBookTrial      = "book_trial"
	IntentEscalation     = "escalation"
	IntentViewSchedule   = "view_schedule"
	IntentChildrenGroups = "children_groups_info"
	IntentGeneralInquiry = "general_inquiry"
	IntentError          = "error"
)

// TurnInput is one user turn: a single utterance plus optional button
// metadata and the routing triple.
type TurnInput struct {
	TenantID   string     `json:"tenant_id"`
	Channel    string     `json:"channel"`
	UserID     string     `json:"user_id"`
	Text       string     `json:"text"`
	Scenario   string     `json:"scenario"`
	ActionType ActionType `json:"action_type"`
	ActionName string     `json:"action_name,omitempty"`
}

// TurnOutput is the engine's answer for one turn.
type TurnOutput struct {
	Reply   string `json:"reply"`
	Intent  string `json:"intent"`
	Version string `json:"version"`
	Debug   Debug  `json:"debug"`
}

// Debug is the structured trace attached to every turn output.
type Debug struct {
	StateBefore   string         `json:"state_before"`
	Scenario      string         `json:"scenario"`
	ActionType    string         `json:"action_type"`
	ActionName    string         `json:"action_name,omitempty"`
	DataCollected map[string]any `json:"data_collected"`
	StateAfter    string         `json:"state_after"`
	RuleUsed      string         `json:"rule_used"`
}
