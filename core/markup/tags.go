package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/koscakluka/innervoice/core/dialogue"
)

type tagKind struct {
	name    string
	opening []byte
	closing []byte
	parse   func(vocabulary *dialogue.Vocabulary, raw []byte) (dialogue.Event, error)
}

var tagKinds = []tagKind{
	newTagKind("skill", parseSkillCheck),
	newTagKind("context_update", parseContextUpdate),
}

func newTagKind(name string, parse func(*dialogue.Vocabulary, []byte) (dialogue.Event, error)) tagKind {
	return tagKind{
		name:    name,
		opening: []byte("<" + name),
		closing: []byte("</" + name + ">"),
		parse:   parse,
	}
}

// openingIndex returns the offset of the first opening marker in data that is
// followed by a delimiter or by the end of data, or -1.
func (k tagKind) openingIndex(data []byte) int {
	offset := 0
	for {
		i := bytes.Index(data[offset:], k.opening)
		if i < 0 {
			return -1
		}
		start := offset + i
		after := start + len(k.opening)
		if after == len(data) || isNameDelimiter(data[after]) {
			return start
		}
		offset = after
	}
}

func isNameDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

type skillElement struct {
	XMLName    xml.Name
	Name       *string `xml:"name,attr"`
	Difficulty *string `xml:"difficulty,attr"`
	Success    *string `xml:"success,attr"`
	Text       string  `xml:",chardata"`
}

type contextUpdateElement struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

func parseSkillCheck(vocabulary *dialogue.Vocabulary, raw []byte) (dialogue.Event, error) {
	var element skillElement
	if err := decodeElement(raw, "skill", &element); err != nil {
		return nil, err
	}

	skill := vocabulary.NormalizeSkill(attributeOr(element.Name, string(dialogue.SkillUnknown)))
	category, _ := dialogue.CategoryOf(skill)

	return dialogue.SkillCheck{
		Skill:      skill,
		Difficulty: vocabulary.NormalizeDifficulty(attributeOr(element.Difficulty, string(dialogue.DifficultyMedium))),
		Success:    strings.EqualFold(attributeOr(element.Success, "false"), "true"),
		Content:    dialogue.NormalizeText(element.Text),
		Category:   category,
	}, nil
}

// parseContextUpdate returns a nil event for blank content.
func parseContextUpdate(_ *dialogue.Vocabulary, raw []byte) (dialogue.Event, error) {
	var element contextUpdateElement
	if err := decodeElement(raw, "context_update", &element); err != nil {
		return nil, err
	}

	content := dialogue.NormalizeText(element.Text)
	if content == "" {
		return nil, nil
	}
	return dialogue.ContextUpdate{Content: content}, nil
}

// decodeElement decodes raw as exactly one element called name. Input that is
// not well-formed yet is reported as ErrIncompleteTag, anything else that does
// not fit as ErrMalformedTag.
func decodeElement(raw []byte, name string, v any) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: decoding panicked: %v", ErrMalformedTag, recovered)
		}
	}()

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.Strict = true
	decoder.Entity = xml.HTMLEntity

	if err := decoder.Decode(v); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %v", ErrIncompleteTag, err)
		}
		return fmt.Errorf("%w: %v", ErrMalformedTag, err)
	}

	if consumed := decoder.InputOffset(); consumed != int64(len(raw)) {
		return fmt.Errorf("%w: unexpected content after <%s> element", ErrMalformedTag, name)
	}

	var decodedName string
	switch element := v.(type) {
	case *skillElement:
		decodedName = element.XMLName.Local
	case *contextUpdateElement:
		decodedName = element.XMLName.Local
	}
	if decodedName != name {
		return fmt.Errorf("%w: expected <%s>, got <%s>", ErrMalformedTag, name, decodedName)
	}

	return nil
}

func attributeOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}
