package transfer

type SettingsUpdate struct {
	PinterestBoardID string `json:"pinterest_board_id"`
	FacebookPageID   string `json:"facebook_page_id"`
}

type ServiceKeyRequest struct {
	Service string `json:"service"`
	ApiKey  string `json:"api_key"`
}
