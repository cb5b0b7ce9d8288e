package cmd

// prefixKey is Ctrl-]. The byte after it is a command rather than input.
const prefixKey = 0x1d

type keyAction int

const (
	actionNone keyAction = iota
	actionNewSession
	actionNextSession
	actionPrevSession
	actionSelectSession
	actionCloseSession
	actionNextProvider
	actionQuit
)

// inputStep is either bytes for the attached session or one command.
type inputStep struct {
	data   []byte
	action keyAction
	// index is the zero-based target of actionSelectSession.
	index int
}

type keyReader struct {
	pending bool
}

// feed splits raw terminal input into session bytes and prefix commands. A
// prefix at the end of one read applies to the first byte of the next.
func (k *keyReader) feed(p []byte) []inputStep {
	var (
		steps []inputStep
		start = 0
	)

	flush := func(end int) {
		if end > start {
			steps = append(steps, inputStep{data: append([]byte(nil), p[start:end]...)})
		}
	}

	for i, b := range p {
		if k.pending {
			k.pending = false
			start = i + 1
			if b == prefixKey {
				steps = append(steps, inputStep{data: []byte{prefixKey}})
				continue
			}
			if step, ok := commandFor(b); ok {
				steps = append(steps, step)
			}
			continue
		}
		if b == prefixKey {
			flush(i)
			k.pending = true
			start = i + 1
		}
	}
	if !k.pending {
		flush(len(p))
	}

	return steps
}

func commandFor(b byte) (inputStep, bool) {
	switch b {
	case 'c':
		return inputStep{action: actionNewSession}, true
	case 'n':
		return inputStep{action: actionNextSession}, true
	case 'p':
		return inputStep{action: actionPrevSession}, true
	case 'x':
		return inputStep{action: actionCloseSession}, true
	case 'a':
		return inputStep{action: actionNextProvider}, true
	case 'q':
		return inputStep{action: actionQuit}, true
	}
	if b >= '1' && b <= '9' {
		return inputStep{action: actionSelectSession, index: int(b - '1')}, true
	}
	return inputStep{}, false
}
