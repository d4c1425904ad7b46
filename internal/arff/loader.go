// Package arff parses attribute-relation (ARFF) datasets into models.Relation.
//
// Parsing happens entirely in memory. Dense rows ("a,b,?") and sparse rows
// ("{0 a, 3 b}") are both accepted; "?" marks a missing value.
package arff

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tecmides/tecmides/internal/models"
)

const maxLineBytes = 16 << 20

// Loader implements the dataset loading stage of the mining pipeline.
type Loader struct{}

// NewLoader constructs an ARFF loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses text into a relation. It fails with models.ErrParse on malformed
// input and with models.ErrEmptyDataset when no instance is present.
func (l *Loader) Load(ctx context.Context, text string) (*models.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(text)
}

// Load parses an ARFF document held in a string.
func Load(text string) (*models.Relation, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads an ARFF document from r.
func Parse(r io.Reader) (*models.Relation, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read dataset at line %d", p.line), models.ErrParse)
	}

	switch {
	case !p.sawRelation:
		return nil, parseError(p.line, "missing @relation header")
	case !p.inData:
		return nil, parseError(p.line, "missing @data section")
	}

	rel := models.NewRelation(p.name, p.attrs, p.instances)
	if rel.NumInstances() == 0 {
		return nil, errors.WithDetailf(
			errors.Mark(errors.Newf("relation %q has no instances", p.name), models.ErrEmptyDataset),
			"%d attributes declared", len(p.attrs),
		)
	}
	return rel, nil
}

type parser struct {
	line        int
	sawRelation bool
	inData      bool
	name        string
	attrs       []models.Attribute
	names       map[string]struct{}
	instances   []models.Instance
}

func (p *parser) consume(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "%") {
		return nil
	}
	if p.inData {
		return p.consumeRow(text)
	}

	keyword, rest := splitKeyword(text)
	switch strings.ToLower(keyword) {
	case "@relation":
		if p.sawRelation {
			return parseError(p.line, "duplicate @relation header")
		}
		name, _, err := readName(rest)
		if err != nil {
			return parseError(p.line, "relation name: %v", err)
		}
		p.name = name
		p.sawRelation = true
	case "@attribute":
		if !p.sawRelation {
			return parseError(p.line, "@attribute before @relation header")
		}
		return p.consumeAttribute(rest)
	case "@data":
		if !p.sawRelation {
			return parseError(p.line, "@data before @relation header")
		}
		if len(p.attrs) == 0 {
			return parseError(p.line, "no attributes declared before @data")
		}
		p.inData = true
	default:
		return parseError(p.line, "unexpected header line %q", truncate(text))
	}
	return nil
}

func (p *parser) consumeAttribute(spec string) error {
	name, rest, err := readName(spec)
	if err != nil {
		return parseError(p.line, "attribute name: %v", err)
	}
	if p.names == nil {
		p.names = make(map[string]struct{})
	}
	if _, dup := p.names[name]; dup {
		return parseError(p.line, "duplicate attribute %q", name)
	}

	attr, err := parseType(name, strings.TrimSpace(rest))
	if err != nil {
		return parseError(p.line, "%v", err)
	}
	p.names[name] = struct{}{}
	p.attrs = append(p.attrs, attr)
	return nil
}

func parseType(name, typ string) (models.Attribute, error) {
	if strings.HasPrefix(typ, "{") {
		if !strings.HasSuffix(typ, "}") {
			return models.Attribute{}, fmt.Errorf("attribute %q: unterminated nominal domain", name)
		}
		tokens, err := splitValues(typ[1 : len(typ)-1])
		if err != nil {
			return models.Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		values := make([]string, 0, len(tokens))
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if tok.text == "" && !tok.quoted {
				continue
			}
			if _, dup := seen[tok.text]; dup {
				return models.Attribute{}, fmt.Errorf("attribute %q: duplicate nominal value %q", name, tok.text)
			}
			seen[tok.text] = struct{}{}
			values = append(values, tok.text)
		}
		return models.Attribute{Name: name, Kind: models.KindNominal, Values: values}, nil
	}

	keyword, _ := splitKeyword(typ)
	switch strings.ToLower(keyword) {
	case "numeric", "real", "integer":
		return models.Attribute{Name: name, Kind: models.KindNumeric}, nil
	case "string", "date", "relational":
		return models.Attribute{}, fmt.Errorf("attribute %q: unsupported attribute type %q", name, keyword)
	case "":
		return models.Attribute{}, fmt.Errorf("attribute %q: missing type", name)
	default:
		return models.Attribute{}, fmt.Errorf("attribute %q: unknown attribute type %q", name, keyword)
	}
}

func (p *parser) consumeRow(text string) error {
	if strings.HasPrefix(text, "{") {
		return p.consumeSparseRow(text)
	}

	tokens, err := splitValues(text)
	if err != nil {
		return parseError(p.line, "%v", err)
	}
	if len(tokens) != len(p.attrs) {
		return parseError(p.line, "expected %d values, found %d", len(p.attrs), len(tokens))
	}

	row := make(models.Instance, len(p.attrs))
	for i, tok := range tokens {
		v, err := p.value(i, tok)
		if err != nil {
			return parseError(p.line, "%v", err)
		}
		row[i] = v
	}
	p.instances = append(p.instances, row)
	return nil
}

func (p *parser) consumeSparseRow(text string) error {
	if !strings.HasSuffix(text, "}") {
		return parseError(p.line, "unterminated sparse row")
	}

	row := make(models.Instance, len(p.attrs))
	for i, attr := range p.attrs {
		if attr.IsNominal() && len(attr.Values) == 0 {
			row[i] = models.Missing
		}
	}

	body := strings.TrimSpace(text[1 : len(text)-1])
	if body == "" {
		p.instances = append(p.instances, row)
		return nil
	}

	entries, err := splitRaw(body)
	if err != nil {
		return parseError(p.line, "%v", err)
	}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		idxText, valueText := splitKeyword(entry)
		idx, err := strconv.Atoi(idxText)
		if err != nil || idx < 0 || idx >= len(p.attrs) {
			return parseError(p.line, "invalid sparse index %q", idxText)
		}
		tok, err := unquote(strings.TrimSpace(valueText))
		if err != nil {
			return parseError(p.line, "%v", err)
		}
		v, err := p.value(idx, tok)
		if err != nil {
			return parseError(p.line, "%v", err)
		}
		row[idx] = v
	}
	p.instances = append(p.instances, row)
	return nil
}

func (p *parser) value(idx int, tok token) (float64, error) {
	attr := p.attrs[idx]
	if tok.text == "?" && !tok.quoted {
		return models.Missing, nil
	}
	if attr.IsNominal() {
		pos := attr.ValueIndex(tok.text)
		if pos < 0 {
			return 0, fmt.Errorf("value %q not in domain of attribute %q", tok.text, attr.Name)
		}
		return float64(pos), nil
	}
	v, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %q: invalid numeric value %q", attr.Name, tok.text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("attribute %q: non-finite numeric value %q", attr.Name, tok.text)
	}
	return v, nil
}

func parseError(line int, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("line %d: %s", line, fmt.Sprintf(format, args...)), models.ErrParse)
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
