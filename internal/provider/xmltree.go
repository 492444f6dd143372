package provider

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/orderledger-dev/orderledger/internal/record"
)

// ParseTree decodes an XML document into a generic record.Node tree. The
// order payloads have no fixed schema, so they are parsed structurally and
// flattened later.
func ParseTree(r io.Reader) (*record.Node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("parsing response: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*record.Node, error) {
	n := &record.Node{Name: start.Name.Local}
	for _, a := range start.Attr {
		n.Attrs = append(n.Attrs, record.Attr{Name: a.Name.Local, Value: a.Value})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing element %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Text += string(t)
		case xml.EndElement:
			return n, nil
		}
	}
}
