// Package route holds the shared value types that flow between the
// classifier, the executor and the merger: extracted question context,
// route candidates and per-handler results.
package route

import (
	"context"
	"time"
)

// MatchType identifies which classification pass produced a route.
type MatchType string

const (
	MatchPattern  MatchType = "pattern"
	MatchKeyword  MatchType = "keyword"
	MatchExample  MatchType = "example"
	MatchSemantic MatchType = "semantic"
	MatchLLM      MatchType = "llm"
	MatchRule     MatchType = "rule"
)

// Comparison is the direction of a metric threshold.
type Comparison string

const (
	LessThan    Comparison = "LESS_THAN"
	GreaterThan Comparison = "GREATER_THAN"
)

// Currency is an ISO-style currency tag recognized in questions.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCHF Currency = "CHF"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyTRY Currency = "TRY"
)

// RiskTolerance is the risk appetite read from the question.
type RiskTolerance string

const (
	RiskLow      RiskTolerance = "LOW"
	RiskMedium   RiskTolerance = "MEDIUM"
	RiskHigh     RiskTolerance = "HIGH"
	RiskVeryHigh RiskTolerance = "VERY_HIGH"
)

// GoalType is the savings goal read from the question.
type GoalType string

const (
	GoalRetirement GoalType = "RETIREMENT"
	GoalHouse      GoalType = "HOUSE"
	GoalEducation  GoalType = "EDUCATION"
	GoalGeneral    GoalType = "GENERAL"
)

// Period is a named time window.
type Period string

const (
	PeriodToday Period = "TODAY"
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
)

// Status reports how a handler invocation ended.
type Status string

const (
	StatusOK       Status = "OK"
	StatusFailed   Status = "FAILED"
	StatusTimedOut Status = "TIMED_OUT"
)

// ErrorKind tags a non-OK result with its failure class.
type ErrorKind string

const (
	ErrInvalidInput        ErrorKind = "INVALID_INPUT"
	ErrNotFound            ErrorKind = "NOT_FOUND"
	ErrUpstreamUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	ErrTimeout             ErrorKind = "TIMEOUT"
	ErrInternal            ErrorKind = "INTERNAL"
)

// Context is the bag of structured parameters extracted from a
// question. Absent values are nil pointers or zero strings; handlers
// must tolerate any subset.
type Context struct {
	Question string `json:"question,omitempty"`

	RequestedCount *int   `json:"requested_count,omitempty"`
	FundCode       string `json:"fund_code,omitempty"`
	Days           *int   `json:"days,omitempty"`
	Amount         *int64 `json:"amount,omitempty"`
	Percentage     *int   `json:"percentage,omitempty"`

	Currency      Currency      `json:"currency,omitempty"`
	RiskTolerance RiskTolerance `json:"risk_tolerance,omitempty"`
	GoalType      GoalType      `json:"goal_type,omitempty"`
	YearsToGoal   *int          `json:"years_to_goal,omitempty"`

	BetaThreshold    *float64   `json:"beta_threshold,omitempty"`
	BetaComparison   Comparison `json:"beta_comparison,omitempty"`
	SharpeThreshold  *float64   `json:"sharpe_threshold,omitempty"`
	SharpeComparison Comparison `json:"sharpe_comparison,omitempty"`

	CompanyName string `json:"company_name,omitempty"`
	Period      Period `json:"period,omitempty"`
}

// Comparison returns the dominant threshold direction: the beta
// direction when a beta threshold is set, else the sharpe direction.
func (c Context) Comparison() Comparison {
	if c.BetaThreshold != nil && c.BetaComparison != "" {
		return c.BetaComparison
	}
	return c.SharpeComparison
}

// Merge fills unset keys of c from other and returns the result.
// Keys already set on c always win; this is the precedence rule for
// LLM-supplied context, which may only add what the deterministic
// extractor did not find.
func (c Context) Merge(other Context) Context {
	if c.Question == "" {
		c.Question = other.Question
	}
	if c.RequestedCount == nil {
		c.RequestedCount = other.RequestedCount
	}
	if c.FundCode == "" {
		c.FundCode = other.FundCode
	}
	if c.Days == nil {
		c.Days = other.Days
	}
	if c.Amount == nil {
		c.Amount = other.Amount
	}
	if c.Percentage == nil {
		c.Percentage = other.Percentage
	}
	if c.Currency == "" {
		c.Currency = other.Currency
	}
	if c.RiskTolerance == "" {
		c.RiskTolerance = other.RiskTolerance
	}
	if c.GoalType == "" {
		c.GoalType = other.GoalType
	}
	if c.YearsToGoal == nil {
		c.YearsToGoal = other.YearsToGoal
	}
	if c.BetaThreshold == nil {
		c.BetaThreshold = other.BetaThreshold
		c.BetaComparison = other.BetaComparison
	}
	if c.SharpeThreshold == nil {
		c.SharpeThreshold = other.SharpeThreshold
		c.SharpeComparison = other.SharpeComparison
	}
	if c.CompanyName == "" {
		c.CompanyName = other.CompanyName
	}
	if c.Period == "" {
		c.Period = other.Period
	}
	return c
}

// Match is a single routing candidate: which handler and method to
// call, with what confidence, and the context to call it with.
type Match struct {
	Handler        string    `json:"handler"`
	Method         string    `json:"method"`
	Confidence     float64   `json:"confidence"`
	Reasoning      string    `json:"reasoning"`
	Context        Context   `json:"context"`
	MatchType      MatchType `json:"match_type"`
	IsMultiHandler bool      `json:"is_multi_handler"`
	ExecutionOrder int       `json:"execution_order"`
}

// HandlerCall carries the bound parameters for one handler invocation.
// The executor fills it from the Context using the well-known aliases;
// handlers read only the fields their method needs.
type HandlerCall struct {
	Question        string
	Count           int
	Days            int
	FundCode        string
	Amount          int64
	Percentage      int
	Currency        Currency
	RiskTolerance   RiskTolerance
	GoalType        GoalType
	YearsToGoal     int
	BetaThreshold   float64
	SharpeThreshold float64
	Comparison      Comparison
	CompanyName     string
	Period          Period

	// Context is the raw extracted context for handlers that need
	// presence information the flat fields cannot express.
	Context Context
}

// Invoker executes one named method of a handler. It must return a
// non-empty text on success and an error only for true internal
// failures; expected empty-data conditions are normal text responses.
type Invoker func(ctx context.Context, method string, call HandlerCall) (string, error)

// HandlerResult is the outcome of one handler invocation.
type HandlerResult struct {
	HandlerName string
	DisplayName string
	MethodName  string
	Confidence  float64
	Reasoning   string
	Text        string
	Status      Status
	ErrorKind   ErrorKind
	Err         string
	Duration    time.Duration
}

// OK reports whether the handler produced usable output.
func (r HandlerResult) OK() bool {
	return r.Status == StatusOK
}

// IntPtr, Int64Ptr and Float64Ptr are small helpers for building
// Context values in tests and handler-specific adjustments.
func IntPtr(v int) *int             { return &v }
func Int64Ptr(v int64) *int64       { return &v }
func Float64Ptr(v float64) *float64 { return &v }
