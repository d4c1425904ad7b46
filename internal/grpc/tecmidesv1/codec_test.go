package tecmidesv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCodecRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec)
	assert.Equal(t, "json", codec.Name())
}

func TestCodecEncodesInfiniteConvictionAsNull(t *testing.T) {
	lift := 1.4
	resp := &RulesResponse{Rules: []*Rule{
		{
			Antecedent:         []*Condition{{Attribute: "outlook", Value: "overcast"}},
			Consequent:         []*Condition{{Attribute: "play", Value: "yes"}},
			Support:            0.28,
			Confidence:         1,
			Lift:               lift,
			ConvictionInfinite: true,
		},
	}}

	data, err := jsonCodec{}.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"conviction":null`)
	assert.Contains(t, string(data), `"conviction_infinite":true`)

	var decoded RulesResponse
	require.NoError(t, jsonCodec{}.Unmarshal(data, &decoded))
	require.Len(t, decoded.GetRules(), 1)
	assert.Nil(t, decoded.Rules[0].Conviction)
	assert.True(t, decoded.Rules[0].ConvictionInfinite)
	assert.Equal(t, "overcast", decoded.Rules[0].Antecedent[0].Value)
}

func TestCodecFlattensRelativityRequest(t *testing.T) {
	req := &GenerateRulesByAttrRelativityRequest{
		GenerateRulesRequest: GenerateRulesRequest{Dataset: "@relation r", NumRules: 5, MinSupport: 0.1, MinConfidence: 0.9},
		ClassIndex:           2,
	}
	data, err := jsonCodec{}.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataset":"@relation r","num_rules":5,"min_support":0.1,"min_confidence":0.9,"class_index":2}`, string(data))
}

func TestCodecUsesProtojsonForProtoMessages(t *testing.T) {
	in := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}
	data, err := jsonCodec{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SERVING")

	out := &healthpb.HealthCheckResponse{}
	require.NoError(t, jsonCodec{}.Unmarshal(data, out))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, out.GetStatus())
}

func TestCodecRejectsMalformedJSON(t *testing.T) {
	var req GenerateRulesRequest
	assert.Error(t, jsonCodec{}.Unmarshal([]byte("{"), &req))
}
