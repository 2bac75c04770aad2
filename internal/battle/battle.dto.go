package battle

type CreateBattleRequest struct {
	OpponentName string     `json:"opponent_name" validate:"required,max=50"`
	DurationDays *int       `json:"duration_days,omitempty" validate:"omitempty,min=1,max=365"`
	Mode         CreateMode `json:"mode,omitempty" validate:"omitempty,oneof=instant invite"`
}

type RefreshResponse struct {
	Updated int `json:"updated"`
}
