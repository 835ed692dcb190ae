package wsmodels

// ServerMessage - событие, отправляемое пользователю по ws
type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Msg      string `json:"msg"`
}
