package game

// ActionType identifies a player action submitted to the engine.
type ActionType string

const (
	ActionRequestPartner      ActionType = "request_partner"
	ActionAcceptPartner       ActionType = "accept_partner"
	ActionDeclinePartner      ActionType = "decline_partner"
	ActionGoSolo              ActionType = "go_solo"
	ActionInvokeDuncan        ActionType = "invoke_duncan"
	ActionInvokeTunkarri      ActionType = "invoke_tunkarri"
	ActionInvokeFloat         ActionType = "invoke_float"
	ActionOfferDouble         ActionType = "offer_double"
	ActionOfferRedouble       ActionType = "offer_redouble"
	ActionRequestAardvarkTeam ActionType = "request_aardvark_team"
	ActionAcceptAardvark      ActionType = "accept_aardvark"
	ActionTossAardvark        ActionType = "toss_aardvark"
	ActionDeclareBigDick      ActionType = "declare_big_dick"
	ActionSelectRotation      ActionType = "select_rotation"
	ActionRecordTeeShot       ActionType = "record_tee_shot"
	ActionHoleOut             ActionType = "hole_out"
)

// PlayerAction is the single mutation request consumed by the engine. The
// payload fields are interpreted per action type.
type PlayerAction struct {
	PlayerID  string
	Type      ActionType
	PartnerID string // request_partner
	Team      int    // request_aardvark_team: 1 or 2
	Position  int    // select_rotation: 0-based spot in the hitting order
}
