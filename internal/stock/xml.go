package stock

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	RootElement = "stocks"
	ItemElement = "stock"

	// XMLHeader is written in front of every serialised collection.
	XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	maxDocumentSize = 50 * 1024 * 1024
)

// EmptyDocument is the serialised form of a collection without records.
var EmptyDocument = []byte(XMLHeader + "<" + RootElement + "></" + RootElement + ">\n")

// DecodeXML parses a <stocks> document into records in document order.
// An empty container yields an empty, non-nil slice.
func DecodeXML(r io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDocumentSize))
	dec.Strict = true
	// no entity expansion
	dec.Entity = make(map[string]string)

	root, err := nextStartElement(dec)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != RootElement {
		return nil, fmt.Errorf("unexpected root element <%s>, want <%s>", root.Name.Local, RootElement)
	}
	if err := plainElement(root); err != nil {
		return nil, err
	}

	records := []Record{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode <%s>: %w", RootElement, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != ItemElement {
				return nil, fmt.Errorf("unexpected element <%s> in <%s>", t.Name.Local, RootElement)
			}
			if err := plainElement(t); err != nil {
				return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
			}
			rec, err := decodeRecord(dec)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
			}
			records = append(records, rec)
		case xml.EndElement:
			if err := expectEOF(dec); err != nil {
				return nil, err
			}
			return records, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return nil, fmt.Errorf("unexpected text in <%s>", RootElement)
			}
		}
	}
}

func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, errors.New("empty document")
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("decode prolog: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return xml.StartElement{}, errors.New("text outside of root element")
			}
		}
	}
}

func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode trailer: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("text after root element")
			}
		}
	}
}

// plainElement rejects what a rewrite would drop: attributes (namespace
// declarations included) and prefixed names.
func plainElement(t xml.StartElement) error {
	if t.Name.Space != "" {
		return fmt.Errorf("element <%s:%s> has a namespace", t.Name.Space, t.Name.Local)
	}
	if len(t.Attr) > 0 {
		return fmt.Errorf("element <%s> has attributes", t.Name.Local)
	}
	return nil
}

func decodeRecord(dec *xml.Decoder) (Record, error) {
	var rec Record
	seen := map[string]struct{}{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if err := plainElement(t); err != nil {
				return Record{}, err
			}
			if !ValidFieldName(name) {
				return Record{}, fmt.Errorf("invalid field name <%s>", name)
			}
			if _, dup := seen[name]; dup {
				return Record{}, fmt.Errorf("duplicate field <%s>", name)
			}
			value, err := readText(dec, name)
			if err != nil {
				return Record{}, err
			}
			seen[name] = struct{}{}
			rec.Fields = append(rec.Fields, Field{Name: name, Value: value})
		case xml.EndElement:
			return rec, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return Record{}, fmt.Errorf("unexpected text in <%s>", ItemElement)
			}
		}
	}
}

func readText(dec *xml.Decoder, name string) (string, error) {
	var buf bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("field <%s> contains nested element <%s>", name, t.Name.Local)
		case xml.EndElement:
			return buf.String(), nil
		}
	}
}

// EncodeXML writes the full collection as an indented <stocks> document.
func EncodeXML(w io.Writer, records []Record) error {
	if _, err := io.WriteString(w, XMLHeader); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: RootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		item := xml.StartElement{Name: xml.Name{Local: ItemElement}}
		if err := enc.EncodeToken(item); err != nil {
			return err
		}
		for _, f := range rec.Fields {
			if err := enc.EncodeElement(f.Value, xml.StartElement{Name: xml.Name{Local: f.Name}}); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(item.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// MarshalXMLDocument is EncodeXML into a byte slice.
func MarshalXMLDocument(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeXML(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
