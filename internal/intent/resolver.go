package intent

import "strings"

// Kind names one recognized operator intent.
type Kind string

const (
	ListAlerts          Kind = "list_alerts"
	AlertDetails        Kind = "alert_details"
	ListAffectedHosts   Kind = "list_affected_hosts"
	BlockIP             Kind = "block_ip"
	ShowOrigin          Kind = "show_origin"
	IsolateHost         Kind = "isolate_host"
	ListIOCs            Kind = "list_iocs"
	StartRemediation    Kind = "start_remediation"
	ShowRemediationPlan Kind = "show_remediation_plan"
	Unrecognized        Kind = "unrecognized"
)

// Intent is the classified meaning of one operator message. Exactly one
// of the argument fields is populated, depending on Kind.
type Intent struct {
	Kind     Kind
	AlertID  string
	IP       string
	Hostname string
	Raw      string
}

type rule struct {
	kind  Kind
	match func(input string) (Intent, bool)
}

// Resolver classifies operator text with an ordered rule table: the
// first matching rule wins, and the table order is part of the command
// surface contract. Matching is case-insensitive substring matching; no
// scoring, no ambiguity resolution.
type Resolver struct {
	rules []rule
}

// NewResolver builds the fixed rule table.
func NewResolver() *Resolver {
	return &Resolver{rules: []rule{
		{ListAlerts, matchKeyword(ListAlerts, "active alerts")},
		{AlertDetails, matchWithToken(AlertDetails, "details alert", false)},
		{ListAffectedHosts, matchKeyword(ListAffectedHosts, "affected hosts")},
		{BlockIP, matchWithToken(BlockIP, "block ip", true)},
		{ShowOrigin, matchAnyKeyword(ShowOrigin, "origin of outbreak", "show origin")},
		{IsolateHost, matchWithToken(IsolateHost, "isolate host", true)},
		{ListIOCs, matchKeyword(ListIOCs, "ioc")},
		// StartRemediation must precede the bare "remediation" plan rule
		// so "start automated remediation playbook" launches the playbook
		// instead of printing the plan.
		{StartRemediation, matchAnyKeyword(StartRemediation, "remediation playbook", "start automated remediation")},
		{ShowRemediationPlan, matchKeyword(ShowRemediationPlan, "remediation")},
	}}
}

// Resolve maps raw operator text to an Intent. Inputs matching no rule
// resolve to Unrecognized; that is a classification, not an error.
func (r *Resolver) Resolve(raw string) Intent {
	input := strings.ToLower(strings.TrimSpace(raw))
	for _, ru := range r.rules {
		if it, ok := ru.match(input); ok {
			it.Raw = raw
			return it
		}
	}
	return Intent{Kind: Unrecognized, Raw: raw}
}

func matchKeyword(kind Kind, keyword string) func(string) (Intent, bool) {
	return func(input string) (Intent, bool) {
		if !strings.Contains(input, keyword) {
			return Intent{}, false
		}
		return Intent{Kind: kind}, true
	}
}

func matchAnyKeyword(kind Kind, keywords ...string) func(string) (Intent, bool) {
	return func(input string) (Intent, bool) {
		for _, kw := range keywords {
			if strings.Contains(input, kw) {
				return Intent{Kind: kind}, true
			}
		}
		return Intent{}, false
	}
}

// matchWithToken matches keyword and captures the next whitespace
// delimited token. When required is true the rule does not match
// without a token, so the input falls through the rest of the table.
func matchWithToken(kind Kind, keyword string, required bool) func(string) (Intent, bool) {
	return func(input string) (Intent, bool) {
		idx := strings.Index(input, keyword)
		if idx < 0 {
			return Intent{}, false
		}
		token := firstToken(input[idx+len(keyword):])
		if token == "" && required {
			return Intent{}, false
		}
		it := Intent{Kind: kind}
		switch kind {
		case AlertDetails:
			it.AlertID = token
		case BlockIP:
			it.IP = token
		case IsolateHost:
			it.Hostname = token
		}
		return it, true
	}
}

func firstToken(rest string) string {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:!?\"'`")
}
