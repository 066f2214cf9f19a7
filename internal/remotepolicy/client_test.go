package remotepolicy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/remotepolicy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

var upgrader = websocket.Upgrader{}

// echoServer replies NoOp for the all-zero state and operator 0 otherwise,
// enough to exercise both CachedAction branches of Client.Apply.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for {
			var req struct {
				Values []int `json:"values"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			allZero := true
			for _, v := range req.Values {
				if v != 0 {
					allZero = false
				}
			}
			resp := struct {
				NoOp bool `json:"no_op"`
				Op   int  `json:"op"`
			}{NoOp: allZero, Op: 0}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	})
	return httptest.NewServer(mux)
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func simpleTask() *task.Task {
	return &task.Task{
		Variables: []task.Variable{{Name: "v", DomainSize: 2}},
		Operators: []task.Operator{{ID: 0, Name: "op", Cost: 1,
			Effects: []task.CondEffect{{Var: 0, Pre: 0, Post: 1}}}},
		Initial: []int{0},
		Goal:    []task.FactPair{{Var: 0, Val: 1}},
	}
}

func TestClientApplySurrendersOnZeroState(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	reg := task.NewStateRegistry(simpleTask())
	client, err := remotepolicy.Dial(wsURL(srv.URL), reg, time.Second)
	require.NoError(t, err)
	defer client.Close()

	action, err := client.Apply(context.Background(), reg.InitialState())
	require.NoError(t, err)
	require.Equal(t, policy.ActionNoOp, action.Kind)
}

func TestClientApplyReturnsOperator(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	reg := task.NewStateRegistry(simpleTask())
	client, err := remotepolicy.Dial(wsURL(srv.URL), reg, time.Second)
	require.NoError(t, err)
	defer client.Close()

	succ := reg.Successor(reg.InitialState(), &simpleTask().Operators[0])
	action, err := client.Apply(context.Background(), succ)
	require.NoError(t, err)
	require.Equal(t, policy.ActionOp, action.Kind)
	require.Equal(t, 0, action.Op)
}

func TestClientPing(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	reg := task.NewStateRegistry(simpleTask())
	client, err := remotepolicy.Dial(wsURL(srv.URL), reg, time.Second)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
}
