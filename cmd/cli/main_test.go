package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestHashPasswordCmd(t *testing.T) {
	orig := bcryptGenerate
	bcryptGenerate = func(p []byte, cost int) ([]byte, error) {
		return []byte("hashed-value"), nil
	}
	defer func() { bcryptGenerate = orig }()

	out, err := run(t, "hash-password", "secret")
	require.NoError(t, err)
	assert.Equal(t, "hashed-value", strings.TrimSpace(out))
}

func TestPayrollCalc(t *testing.T) {
	out, err := run(t, "payroll", "calc", "--frequency", "Fortnightly", "--gross", "3000")
	require.NoError(t, err)

	assert.Contains(t, out, "K3000.00")
	assert.Contains(t, out, "NET PAY")
	assert.Contains(t, out, "Employer Super")
	assert.Contains(t, out, "K-180.00")
}

func TestPayrollCalc_JSON(t *testing.T) {
	out, err := run(t, "payroll", "calc", "--frequency", "Monthly", "--gross", "5000", "--json")
	require.NoError(t, err)

	var resp struct {
		TotalEarnings string `json:"totalEarnings"`
		AnnualIncome  string `json:"annualIncome"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "5000.00", resp.TotalEarnings)
	assert.Equal(t, "60000.00", resp.AnnualIncome)
}

func TestPayrollCalc_FrequencyIgnoresCase(t *testing.T) {
	lower, err := run(t, "payroll", "calc", "--frequency", "fortnightly", "--gross", "2000")
	require.NoError(t, err)
	canonical, err := run(t, "payroll", "calc", "--frequency", "Fortnightly", "--gross", "2000")
	require.NoError(t, err)

	assert.Equal(t, canonical, lower)
	assert.Contains(t, lower, "K1450.19")
}

func TestPayrollSchedule_RoundTripsThroughCalc(t *testing.T) {
	out, err := run(t, "payroll", "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "name: PNG IRC 2026")
	assert.Contains(t, out, "tax_free_threshold:")
	assert.Contains(t, out, "employer_super_rate:")

	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	fromFile, err := run(t, "payroll", "calc", "--gross", "3000", "--schedule", path)
	require.NoError(t, err)
	builtIn, err := run(t, "payroll", "calc", "--gross", "3000")
	require.NoError(t, err)
	assert.Equal(t, builtIn, fromFile)

	reprinted, err := run(t, "payroll", "schedule", "--schedule", path)
	require.NoError(t, err)
	assert.Equal(t, out, reprinted)
}

func TestPayrollSchedule_RejectsBrokenTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nbrackets: []\n"), 0o600))

	_, err := run(t, "payroll", "schedule", "--schedule", path)
	assert.Error(t, err)
}

func TestPayrollCalc_RejectsBadInput(t *testing.T) {
	_, err := run(t, "payroll", "calc", "--frequency", "Weekly", "--gross", "3000")
	assert.Error(t, err)

	_, err = run(t, "payroll", "calc", "--gross", "lots")
	assert.ErrorContains(t, err, "--gross")
}

func newAPI(t *testing.T, wantPath string, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTrustBalance(t *testing.T) {
	srv := newAPI(t, "/api/v1/matters/m-1/trust", http.StatusOK,
		`{"success":true,"data":{"matterId":"m-1","balance":"1500.00","latestEntry":{"id":"e-1","transactionType":"Deposit","amount":"1500.00","transactionDate":"2026-01-15","description":"Initial retainer"}}}`)

	out, err := run(t, "--url", srv.URL, "--token", "tkn", "trust", "balance", "m-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: K1500.00")
	assert.Contains(t, out, "Deposit K1500.00 on 2026-01-15")
}

func TestTrustBalance_APIError(t *testing.T) {
	srv := newAPI(t, "/api/v1/matters/nope/trust", http.StatusNotFound, `{"success":false,"message":"Matter not found"}`)

	_, err := run(t, "--url", srv.URL, "--token", "tkn", "trust", "balance", "nope")
	assert.ErrorContains(t, err, "Matter not found")
}

func TestTrustReconcile(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		srv := newAPI(t, "/api/v1/matters/m-1/trust/reconcile", http.StatusOK,
			`{"success":true,"data":{"matterId":"m-1","consistent":true,"entryCount":2,"totalDeposits":"2000.00","totalWithdrawals":"500.00","calculatedBalance":"1500.00","recordedBalance":"1500.00"}}`)

		out, err := run(t, "--url", srv.URL, "--token", "tkn", "trust", "reconcile", "m-1")
		require.NoError(t, err)
		assert.Contains(t, out, "Reconciliation PASSED")
	})

	t.Run("broken", func(t *testing.T) {
		srv := newAPI(t, "/api/v1/matters/m-1/trust/reconcile", http.StatusOK,
			`{"success":true,"data":{"matterId":"m-1","consistent":false,"entryCount":2,"totalDeposits":"2000.00","totalWithdrawals":"500.00","calculatedBalance":"1500.00","recordedBalance":"1400.00","break":{"index":1,"entryId":"e-2","expectedBalance":"1500.00","recordedBalance":"1400.00"}}}`)

		out, err := run(t, "--url", srv.URL, "--token", "tkn", "trust", "reconcile", "m-1")
		assert.Error(t, err)
		assert.Contains(t, out, "Break at entry e-2")
	})
}
