package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/billing"
	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/metrics"
	"github.com/kortix-ai/gateway/middleware"
	"github.com/kortix-ai/gateway/search"
)

type webSearchRequest struct {
	Query       string `json:"query" binding:"required"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
	SessionID   string `json:"session_id"`
}

type imageSearchRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"max_results"`
	SafeSearch *bool  `json:"safe_search"`
	SessionID  string `json:"session_id"`
}

// WebSearch handles POST /web-search: execute the search, then bill for it.
// A failed debit never fails the search response.
func WebSearch(c *gin.Context) {
	if webSearch == nil {
		middleware.AbortWithError(c, http.StatusInternalServerError,
			errors.New("web search is not configured"))
		return
	}

	var req webSearchRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil || req.Query == "" {
		middleware.AbortWithError(c, http.StatusBadRequest,
			errors.New("query is required"))
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 5
	}
	if req.SearchDepth == "" {
		req.SearchDepth = search.DepthBasic
	}

	ctx := gmw.Ctx(c)
	accountID := c.GetString(ctxkey.AccountID)
	if check := billingSvc.CheckCredits(ctx, accountID, billing.DefaultMinimumCredits); !check.HasCredits {
		middleware.AbortWithError(c, http.StatusPaymentRequired, errors.New(check.Message))
		return
	}

	results, err := webSearch.Execute(ctx, req.Query, req.MaxResults, req.SearchDepth)
	if err != nil {
		metrics.RecordSearch("web", false)
		middleware.AbortWithError(c, http.StatusInternalServerError,
			errors.Wrap(err, "web search failed"))
		return
	}
	metrics.RecordSearch("web", true)

	tool := "web_search_basic"
	if req.SearchDepth == search.DepthAdvanced {
		tool = "web_search_advanced"
	}
	outcome := billingSvc.DeductToolCredits(ctx, c.GetString(ctxkey.AccountID), tool, len(results), req.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"query":   req.Query,
		"cost":    outcome.Amount,
	})
}

// ImageSearch handles POST /image-search, mirroring WebSearch.
func ImageSearch(c *gin.Context) {
	if imageSearch == nil {
		middleware.AbortWithError(c, http.StatusInternalServerError,
			errors.New("image search is not configured"))
		return
	}

	var req imageSearchRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil || req.Query == "" {
		middleware.AbortWithError(c, http.StatusBadRequest,
			errors.New("query is required"))
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 5
	}
	safeSearch := true
	if req.SafeSearch != nil {
		safeSearch = *req.SafeSearch
	}

	ctx := gmw.Ctx(c)
	accountID := c.GetString(ctxkey.AccountID)
	if check := billingSvc.CheckCredits(ctx, accountID, billing.DefaultMinimumCredits); !check.HasCredits {
		middleware.AbortWithError(c, http.StatusPaymentRequired, errors.New(check.Message))
		return
	}

	results, err := imageSearch.Execute(ctx, req.Query, req.MaxResults, safeSearch)
	if err != nil {
		metrics.RecordSearch("image", false)
		middleware.AbortWithError(c, http.StatusInternalServerError,
			errors.Wrap(err, "image search failed"))
		return
	}
	metrics.RecordSearch("image", true)

	outcome := billingSvc.DeductToolCredits(ctx, c.GetString(ctxkey.AccountID), "image_search", len(results), req.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"query":   req.Query,
		"cost":    outcome.Amount,
	})
}
