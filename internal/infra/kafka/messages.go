package kafka

import (
	"encoding/json"
	"fmt"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kolharsam/inc/internal/domain/harness"
)

const (
	messageTypeSuite = "suite"
	messageTypeDone  = "done"
)

type suiteEnvelope struct {
	Type  string         `json:"type,omitempty"`
	Name  string         `json:"name,omitempty"`
	Cases []caseEnvelope `json:"cases,omitempty"`
}

type caseEnvelope struct {
	Expr     string `json:"expr"`
	Kind     string `json:"kind,omitempty"`
	Expected string `json:"expected"`
}

func decodeSuiteMessage(msg kafkago.Message) (harness.Suite, error) {
	var envelope suiteEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return harness.Suite{}, fmt.Errorf("decode message: %w", err)
	}

	msgType := envelope.Type
	if msgType == "" {
		msgType = messageTypeSuite
	}

	switch msgType {
	case messageTypeSuite:
		return envelope.toSuite(msg)
	case messageTypeDone:
		return harness.Suite{}, io.EOF
	default:
		return harness.Suite{}, fmt.Errorf("unknown message type %q", msgType)
	}
}

func (e suiteEnvelope) toSuite(msg kafkago.Message) (harness.Suite, error) {
	name := e.Name
	if name == "" {
		name = string(msg.Key)
	}
	if name == "" {
		return harness.Suite{}, fmt.Errorf("suite message missing name")
	}
	if len(e.Cases) == 0 {
		return harness.Suite{}, fmt.Errorf("suite %q has no cases", name)
	}

	cases := make([]harness.TestCase, len(e.Cases))
	for idx, c := range e.Cases {
		kind := c.Kind
		if kind == "" {
			kind = string(harness.KindString)
		}
		// Unknown kinds are carried through; the runner rejects them.
		cases[idx] = harness.TestCase{
			Expr:     c.Expr,
			Kind:     harness.OutputKind(kind),
			Expected: c.Expected,
		}
	}

	return harness.Suite{Name: name, Cases: cases}, nil
}

func encodeSuite(suite harness.Suite) ([]byte, error) {
	cases := make([]caseEnvelope, len(suite.Cases))
	for idx, c := range suite.Cases {
		cases[idx] = caseEnvelope{
			Expr:     c.Expr,
			Kind:     string(c.Kind),
			Expected: c.Expected,
		}
	}

	payload, err := json.Marshal(suiteEnvelope{
		Type:  messageTypeSuite,
		Name:  suite.Name,
		Cases: cases,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal suite: %w", err)
	}
	return payload, nil
}

func encodeDone() ([]byte, error) {
	payload, err := json.Marshal(suiteEnvelope{Type: messageTypeDone})
	if err != nil {
		return nil, fmt.Errorf("marshal done marker: %w", err)
	}
	return payload, nil
}
