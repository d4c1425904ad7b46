// Package client is a Go client for the tecmides rule service.
package client

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	tecmidesv1 "github.com/tecmides/tecmides/internal/grpc/tecmidesv1"
)

// Request describes one rule-generation call.
type Request struct {
	RequestID     string
	Dataset       string
	MaxRules      int
	MinSupport    float64
	MinConfidence float64
}

// Condition is a single attribute=value test.
type Condition struct {
	Attribute string
	Value     string
}

func (c Condition) String() string {
	return c.Attribute + "=" + c.Value
}

// Rule is a mined association rule. Conviction is +Inf for rules with
// confidence 1 and NaN when the server sent none.
type Rule struct {
	Antecedent []Condition
	Consequent []Condition
	Support    float64
	Confidence float64
	Lift       float64
	Conviction float64
}

// String renders the rule as "a=x b=y ==> c=z".
func (r Rule) String() string {
	return joinConditions(r.Antecedent) + " ==> " + joinConditions(r.Consequent)
}

// ConvictionInfinite reports whether the rule has confidence 1.
func (r Rule) ConvictionInfinite() bool {
	return math.IsInf(r.Conviction, 1)
}

// Client calls a remote RuleService.
type Client struct {
	conn *grpc.ClientConn
	rpc  tecmidesv1.RuleServiceClient
}

// Dial connects to address. Without options the connection is plaintext.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return &Client{conn: conn, rpc: tecmidesv1.NewRuleServiceClient(conn)}, nil
}

// New wraps an existing connection; Close is then the caller's responsibility.
func New(conn grpc.ClientConnInterface) *Client {
	return &Client{rpc: tecmidesv1.NewRuleServiceClient(conn)}
}

// GenerateRules runs the plain flow remotely.
func (c *Client) GenerateRules(ctx context.Context, req Request) ([]Rule, error) {
	resp, err := c.rpc.GenerateRules(ctx, toRequest(req))
	if err != nil {
		return nil, err
	}
	return fromResponse(resp), nil
}

// GenerateRulesByAttrRelativity runs the attribute-selection flow remotely.
func (c *Client) GenerateRulesByAttrRelativity(ctx context.Context, req Request, classIndex int) ([]Rule, error) {
	resp, err := c.rpc.GenerateRulesByAttrRelativity(ctx, &tecmidesv1.GenerateRulesByAttrRelativityRequest{
		GenerateRulesRequest: *toRequest(req),
		ClassIndex:           clampInt32(classIndex),
	})
	if err != nil {
		return nil, err
	}
	return fromResponse(resp), nil
}

// Health returns the service status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.rpc.HealthCheck(ctx, &tecmidesv1.HealthRequest{})
	if err != nil {
		return "", err
	}
	return resp.GetStatus(), nil
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func toRequest(req Request) *tecmidesv1.GenerateRulesRequest {
	return &tecmidesv1.GenerateRulesRequest{
		Dataset:       req.Dataset,
		NumRules:      clampInt32(req.MaxRules),
		MinSupport:    req.MinSupport,
		MinConfidence: req.MinConfidence,
		RequestId:     req.RequestID,
	}
}

// clampInt32 saturates n to the int32 range of the wire fields.
func clampInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int32(n)
}

func fromResponse(resp *tecmidesv1.RulesResponse) []Rule {
	rules := make([]Rule, 0, len(resp.GetRules()))
	for _, r := range resp.GetRules() {
		if r == nil {
			continue
		}
		rule := Rule{
			Antecedent: fromConditions(r.Antecedent),
			Consequent: fromConditions(r.Consequent),
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
			Conviction: math.NaN(),
		}
		switch {
		case r.ConvictionInfinite:
			rule.Conviction = math.Inf(1)
		case r.Conviction != nil:
			rule.Conviction = *r.Conviction
		}
		rules = append(rules, rule)
	}
	return rules
}

func fromConditions(conds []*tecmidesv1.Condition) []Condition {
	out := make([]Condition, 0, len(conds))
	for _, c := range conds {
		if c == nil {
			continue
		}
		out = append(out, Condition{Attribute: c.Attribute, Value: c.Value})
	}
	return out
}

func joinConditions(conds []Condition) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
