package domain

type DataFrame struct {
	SessionID SessionID
	Payload   []byte
}

type ProcessExit struct {
	SessionID SessionID
	Err       error
}

// BackendEvent is one message on the inbound bus. Exactly one field is set.
type BackendEvent struct {
	Frame *DataFrame
	Exit  *ProcessExit
}
