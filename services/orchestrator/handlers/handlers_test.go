// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianVerify/services/engine"
	"github.com/AleutianAI/AleutianVerify/services/engine/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	eng := engine.New(nil, engine.DefaultConfig())
	router := gin.New()
	router.POST("/v1/evaluate", Evaluate(eng))
	router.POST("/v1/verify", Verify(eng))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEvaluate_MissingQueryReturns400(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/evaluate", gin.H{"response": "some answer"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestEvaluate_MissingResponseReturns400(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/evaluate", gin.H{"query": "what was spent?"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_InvalidJSONReturns400(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_HappyPath(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/evaluate", EvaluateRequestBody{
		Query:    "What was the total expenditure on the rural roads scheme?",
		Response: "According to the annual report, the scheme spent ₹120 crore in FY22-23.",
		Documents: []DocumentPayload{{
			ID:      "d1",
			Source:  "budget.pdf",
			Content: "The rural roads scheme spent ₹120 crore in FY22-23.",
		}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.EvaluationID)
	assert.Len(t, result.Dimensions, 9)
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 100.0)
	assert.NotEmpty(t, result.AllMetrics)
}

func TestEvaluate_UnknownJurisdictionFallsBackToRTI(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/evaluate", EvaluateRequestBody{
		Query:        "What was the total expenditure on the rural roads scheme?",
		Response:     "The scheme spent ₹120 crore in FY22-23.",
		Jurisdiction: "MARS_COLONY_LAW",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	compliance, ok := result.Dimensions[types.DimLegalCompliance]
	require.True(t, ok)
	// RTI fallback carries the Section 8 metric.
	_, ok = result.AllMetrics["section_8_compliance"]
	assert.True(t, ok, "expected RTI metrics, dimension metrics: %v", compliance.Metrics)
}

func TestEvaluate_WeightOverrides(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/evaluate", EvaluateRequestBody{
		Query:    "What was the total expenditure on the rural roads scheme?",
		Response: "The scheme spent ₹120 crore in FY22-23.",
		Weights:  map[string]float64{types.DimResponseQuality: 1.0},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, result.Dimensions[types.DimResponseQuality].Score, result.OverallScore, 0.01)
}

func TestVerify_MissingResponseReturns400(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/verify", gin.H{"documents": []gin.H{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify_HappyPath(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/verify", VerifyRequestBody{
		Response: "The department spent ₹500 crore in FY22-23.",
		Documents: []DocumentPayload{{
			ID:      "d1",
			Source:  "budget.pdf",
			Content: "Audited accounts confirm the department spent ₹500 crore in FY22-23.",
		}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report types.VerificationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Greater(t, report.TotalClaims, 0)
	assert.Equal(t, report.TotalClaims, report.VerifiedClaims)
	assert.Equal(t, 0, report.HallucinatedClaims)
	assert.Equal(t, 100.0, report.VerificationScore)
}

func TestVerify_UnsupportedClaimFlagged(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/verify", VerifyRequestBody{
		Response: "The department spent ₹999 billion on submarines.",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report types.VerificationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Greater(t, report.HallucinatedClaims, 0)
	assert.NotEmpty(t, report.Hallucinations)
}

func TestVerify_DocumentWithoutContentReturns400(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/verify", gin.H{
		"response":  "The department spent ₹500 crore.",
		"documents": []gin.H{{"id": "d1", "source": "x.pdf"}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
