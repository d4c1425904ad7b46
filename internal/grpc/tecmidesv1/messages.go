// Package tecmidesv1 defines the tecmides.v1.RuleService wire contract. Messages
// travel as JSON using the codec registered by this package.
package tecmidesv1

// GenerateRulesRequest asks for rules over an ARFF dataset.
type GenerateRulesRequest struct {
	Dataset       string  `json:"dataset"`
	NumRules      int32   `json:"num_rules"`
	MinSupport    float64 `json:"min_support"`
	MinConfidence float64 `json:"min_confidence"`
	RequestId     string  `json:"request_id,omitempty"`
}

func (x *GenerateRulesRequest) GetDataset() string {
	if x != nil {
		return x.Dataset
	}
	return ""
}

func (x *GenerateRulesRequest) GetNumRules() int32 {
	if x != nil {
		return x.NumRules
	}
	return 0
}

func (x *GenerateRulesRequest) GetMinSupport() float64 {
	if x != nil {
		return x.MinSupport
	}
	return 0
}

func (x *GenerateRulesRequest) GetMinConfidence() float64 {
	if x != nil {
		return x.MinConfidence
	}
	return 0
}

func (x *GenerateRulesRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

// GenerateRulesByAttrRelativityRequest adds the class attribute index.
type GenerateRulesByAttrRelativityRequest struct {
	GenerateRulesRequest
	ClassIndex int32 `json:"class_index"`
}

func (x *GenerateRulesByAttrRelativityRequest) GetClassIndex() int32 {
	if x != nil {
		return x.ClassIndex
	}
	return 0
}

// Condition is one attribute=value term of a rule.
type Condition struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// Rule is an association rule. Conviction is null when ConvictionInfinite is set.
type Rule struct {
	Antecedent         []*Condition `json:"antecedent"`
	Consequent         []*Condition `json:"consequent"`
	Support            float64      `json:"support"`
	Confidence         float64      `json:"confidence"`
	Lift               float64      `json:"lift"`
	Conviction         *float64     `json:"conviction"`
	ConvictionInfinite bool         `json:"conviction_infinite,omitempty"`
}

// RulesResponse carries the filtered rules of one request.
type RulesResponse struct {
	Rules     []*Rule `json:"rules"`
	RequestId string  `json:"request_id,omitempty"`
}

func (x *RulesResponse) GetRules() []*Rule {
	if x != nil {
		return x.Rules
	}
	return nil
}

// HealthRequest is empty.
type HealthRequest struct{}

// HealthResponse reports the service state and recent mining latency.
type HealthResponse struct {
	Status       string  `json:"status"`
	ErrorPolicy  string  `json:"error_policy,omitempty"`
	LatencyP95Ms float64 `json:"latency_p95_ms"`
}

func (x *HealthResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}
