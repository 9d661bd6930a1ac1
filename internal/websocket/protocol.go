package websocket

import "encoding/json"

// Client-to-server frame types.
const (
	FrameConnect     = "connect"
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameSend        = "send"
)

// Server-to-client frame types.
const (
	FrameAck   = "ack"
	FrameError = "error"
)

// Frame is the JSON control frame read from the client.
type Frame struct {
	Type  string          `json:"type"`
	Token string          `json:"token,omitempty"`
	Topic string          `json:"topic,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendPayload carries an outbound message send request.
type SendPayload struct {
	ConversationID  string `json:"conversationId"`
	ReceiverID      string `json:"receiverId"`
	Content         string `json:"content"`
	ClientMessageID string `json:"clientMessageId,omitempty"`
}

// ServerFrame is the JSON control frame written back to the client. Event
// pushes use the events.Envelope shape instead.
type ServerFrame struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

func ackFrame(topic string) []byte {
	payload, _ := json.Marshal(ServerFrame{Type: FrameAck, Topic: topic})
	return payload
}

func errorFrame(code, msg, topic string) []byte {
	payload, _ := json.Marshal(ServerFrame{Type: FrameError, Topic: topic, Error: msg, Code: code})
	return payload
}
