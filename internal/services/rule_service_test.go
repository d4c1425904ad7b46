package services

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tecmides/tecmides/internal/api"
	"github.com/tecmides/tecmides/internal/config"
	"github.com/tecmides/tecmides/internal/engine"
	tecmidesv1 "github.com/tecmides/tecmides/internal/grpc/tecmidesv1"
)

const weatherARFF = `@relation weather
@attribute outlook {sunny,overcast,rainy}
@attribute windy {true,false}
@attribute humidity {high,normal}
@attribute play {yes,no}
@data
sunny,false,high,no
sunny,true,high,no
overcast,false,high,yes
rainy,false,high,yes
rainy,false,normal,yes
rainy,true,normal,no
overcast,true,normal,yes
sunny,false,high,no
sunny,false,normal,yes
rainy,false,normal,yes
sunny,true,normal,yes
overcast,true,high,yes
overcast,false,normal,yes
rainy,true,high,no
`

func startServer(t *testing.T, policy engine.ErrorPolicy) (tecmidesv1.RuleServiceClient, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	pipeline := engine.NewPipeline(nil, nil, nil, nil, nil, engine.WithPolicy(policy))
	server := api.NewServerOnListener(config.ServerConfig{}, lis, NewRuleService(nil, pipeline))
	go func() { _ = server.Start() }()
	t.Cleanup(func() { server.Shutdown(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return tecmidesv1.NewRuleServiceClient(conn), conn
}

func weatherRequest() *tecmidesv1.GenerateRulesRequest {
	return &tecmidesv1.GenerateRulesRequest{
		Dataset:       weatherARFF,
		NumRules:      10,
		MinSupport:    0.1,
		MinConfidence: 0.9,
	}
}

func TestGenerateRulesOverGRPC(t *testing.T) {
	client, _ := startServer(t, engine.PolicyCompat)

	resp, err := client.GenerateRules(context.Background(), weatherRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetRules())
	assert.NotEmpty(t, resp.RequestId)
	assert.LessOrEqual(t, len(resp.Rules), 10)

	for _, rule := range resp.Rules {
		assert.NotEmpty(t, rule.Antecedent)
		assert.NotEmpty(t, rule.Consequent)
		assert.GreaterOrEqual(t, rule.Confidence, 0.9)
		assert.GreaterOrEqual(t, rule.Lift, 1.1)
		if rule.Confidence == 1 {
			assert.True(t, rule.ConvictionInfinite)
			assert.Nil(t, rule.Conviction)
		}
	}
}

func TestGenerateRulesKeepsCallerRequestID(t *testing.T) {
	client, _ := startServer(t, engine.PolicyCompat)

	req := weatherRequest()
	req.RequestId = "caller-42"
	resp, err := client.GenerateRules(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "caller-42", resp.RequestId)
}

func TestGenerateRulesCompatReturnsEmptyOnBadInput(t *testing.T) {
	client, _ := startServer(t, engine.PolicyCompat)

	req := weatherRequest()
	req.Dataset = "@relation broken\n@attribute a string\n@data\nx\n"
	resp, err := client.GenerateRules(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.GetRules())

	rel := &tecmidesv1.GenerateRulesByAttrRelativityRequest{GenerateRulesRequest: *weatherRequest(), ClassIndex: 9}
	resp, err = client.GenerateRulesByAttrRelativity(context.Background(), rel)
	require.NoError(t, err)
	assert.Empty(t, resp.GetRules())
}

func TestGenerateRulesStrictStatusCodes(t *testing.T) {
	client, _ := startServer(t, engine.PolicyStrict)

	badDataset := weatherRequest()
	badDataset.Dataset = "@relation broken\n@attribute a {x}\n@data\ny\n"
	_, err := client.GenerateRules(context.Background(), badDataset)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	emptyDataset := weatherRequest()
	emptyDataset.Dataset = "@relation empty\n@attribute a {x}\n@data\n"
	_, err = client.GenerateRules(context.Background(), emptyDataset)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	badSupport := weatherRequest()
	badSupport.MinSupport = 0
	_, err = client.GenerateRules(context.Background(), badSupport)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	nothingFrequent := &tecmidesv1.GenerateRulesRequest{
		Dataset:       "@relation u\n@attribute a {p,q,r,s}\n@data\np\nq\nr\ns\n",
		NumRules:      5,
		MinSupport:    0.5,
		MinConfidence: 0.5,
	}
	_, err = client.GenerateRules(context.Background(), nothingFrequent)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	badClass := &tecmidesv1.GenerateRulesByAttrRelativityRequest{GenerateRulesRequest: *weatherRequest(), ClassIndex: 4}
	_, err = client.GenerateRulesByAttrRelativity(context.Background(), badClass)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGenerateRulesByAttrRelativityOverGRPC(t *testing.T) {
	client, _ := startServer(t, engine.PolicyStrict)

	req := &tecmidesv1.GenerateRulesByAttrRelativityRequest{GenerateRulesRequest: *weatherRequest(), ClassIndex: 3}
	resp, err := client.GenerateRulesByAttrRelativity(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetRules())
	for _, rule := range resp.Rules {
		for _, cond := range append(append([]*tecmidesv1.Condition(nil), rule.Antecedent...), rule.Consequent...) {
			assert.NotEqual(t, "windy", cond.Attribute)
		}
	}
}

func TestHealthChecks(t *testing.T) {
	client, conn := startServer(t, engine.PolicyStrict)

	resp, err := client.HealthCheck(context.Background(), &tecmidesv1.HealthRequest{})
	require.NoError(t, err)
	assert.Equal(t, "SERVING", resp.GetStatus())
	assert.Equal(t, "strict", resp.ErrorPolicy)

	std, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, std.GetStatus())
}

func TestRuleServiceGuards(t *testing.T) {
	service := NewRuleService(nil, nil)

	_, err := service.GenerateRules(context.Background(), nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = service.GenerateRules(context.Background(), weatherRequest())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = service.GenerateRulesByAttrRelativity(context.Background(), nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	health, err := service.HealthCheck(context.Background(), &tecmidesv1.HealthRequest{})
	require.NoError(t, err)
	assert.Equal(t, "NOT_SERVING", health.Status)
}

func TestToStatusMapsCancellation(t *testing.T) {
	assert.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(context.DeadlineExceeded)))
}
