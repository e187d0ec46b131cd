package stream

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// frame is one server-sent event: optional id and event name plus the
// accumulated data lines.
type frame struct {
	id    string
	event string
	data  []byte
}

// readFrames parses text/event-stream input and calls emit for each
// complete frame carrying data. Comment lines (leading ':') are ignored,
// fields without data never dispatch, and unknown field names are
// skipped. Returns the underlying read error, io.EOF included.
func readFrames(r io.Reader, emit func(frame)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur frame
	var data bytes.Buffer
	flush := func() {
		if data.Len() > 0 {
			cur.data = append([]byte(nil), data.Bytes()...)
			emit(cur)
		}
		cur = frame{}
		data.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "id":
				cur.id = value
			case "event":
				cur.event = value
			case "data":
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(value)
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
