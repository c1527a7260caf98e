package transfer

type ManualPostRequest struct {
	VideoURL        string   `json:"video_url"`
	Caption         string   `json:"caption"`
	TargetPlatforms []string `json:"target_platforms"`
}

type CaptionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
}
