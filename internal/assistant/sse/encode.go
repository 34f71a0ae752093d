package sse

import (
	"encoding/json"
	"io"
)

type deltaChunk struct {
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Delta deltaContent `json:"delta"`
}

type deltaContent struct {
	Content string `json:"content"`
}

// WriteChunk writes one content fragment as a data event.
func WriteChunk(w io.Writer, content string) error {
	b, err := json.Marshal(deltaChunk{Choices: []deltaChoice{{Delta: deltaContent{Content: content}}}})
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(dataPrefix)+len(b)+2)
	buf = append(buf, dataPrefix...)
	buf = append(buf, b...)
	buf = append(buf, '\n', '\n')
	_, err = w.Write(buf)
	return err
}

// WriteDone writes the stream terminator.
func WriteDone(w io.Writer) error {
	_, err := io.WriteString(w, dataPrefix+doneToken+"\n\n")
	return err
}
