package dto

import "fmt"

// Pixel holds the credentials a site submits its conversion events with.
type Pixel struct {
	Id       string `json:"id"`
	Token    string `json:"token"`
	TestCode string `json:"test_code"`
	Email    string `json:"email"`
}

// String hides the access token so a pixel can be logged as is.
func (p *Pixel) String() string {
	if p == nil {
		return "<nil>"
	}
	token := ""
	if len(p.Token) > 0 {
		token = "***"
	}
	return fmt.Sprintf("{id:%v token:%v test_code:%v email:%v}", p.Id, token, p.TestCode, p.Email)
}

// Data is the body of a POST /<pixel_id>/events request.
type Data struct {
	PixelId       string      `json:"-"`
	Data          []*DataItem `json:"data"`
	TestEventCode string      `json:"test_event_code,omitempty"`
}

type DataItem struct {
	EventName      string    `json:"event_name"`
	EventId        string    `json:"event_id"`
	EventTime      int64     `json:"event_time"`
	EventSourceUrl string    `json:"event_source_url"`
	ActionSource   string    `json:"action_source"`
	UserData       *UserData `json:"user_data"`
	Fbp            string    `json:"fbp,omitempty"`
	Fbc            string    `json:"fbc,omitempty"`
}

type UserData struct {
	ClientIpAddress string `json:"client_ip_address"`
	ClientUserAgent string `json:"client_user_agent"`
	ExternalId      string `json:"external_id,omitempty"`
}
