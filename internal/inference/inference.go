// Package inference adds the connections an architecture implies but rarely
// spells out, such as compute reading secrets from a key vault.
package inference

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

// Pattern links every present From service to every present To service.
// Entries are icon titles.
type Pattern struct {
	From  []string
	To    []string
	Label string
}

var compute = []string{
	"App Services",
	"Function Apps",
	"Virtual Machine",
	"VM Scale Sets",
	"Kubernetes Services",
	"Container Apps",
	"Container Instances",
	"Azure Spring Apps",
	"Static Web Apps",
}

// DefaultPatterns is the built-in pattern table, applied in order.
var DefaultPatterns = []Pattern{
	{From: compute, To: []string{"Azure Cosmos Db", "SQL Database", "SQL Managed Instance", "Azure Database PostgreSQL Server", "Azure Database MySQL Server"}, Label: "data access"},
	{From: compute, To: []string{"Cache Redis"}, Label: "caching"},
	{From: compute, To: []string{"Key Vaults"}, Label: "secrets"},
	{From: []string{"Application Gateways", "Front Door and CDN Profiles", "API Management Services", "Load Balancers"}, To: compute, Label: "load balancer"},
	{From: compute, To: []string{"Storage Accounts"}, Label: "storage"},
	{From: compute, To: []string{"Service Bus", "Event Hubs", "Event Grid Topics"}, Label: "messaging"},
	{From: compute, To: []string{"Azure OpenAI", "Cognitive Services"}, Label: "inference"},
	{From: compute, To: []string{"Cognitive Search"}, Label: "search"},
	{From: []string{"Container Registries"}, To: []string{"Kubernetes Services", "Container Apps"}, Label: "image pull"},
	{From: compute, To: []string{"Application Insights"}, Label: "telemetry"},
	{From: []string{"Application Insights"}, To: []string{"Log Analytics Workspaces"}, Label: "logs"},
	{From: []string{"Management Groups"}, To: []string{"Subscriptions"}, Label: "contains"},
	{From: []string{"Subscriptions"}, To: []string{"Landing Zone"}, Label: "contains"},
}

// AddLogicalConnections returns conns extended with the DefaultPatterns
// edges between the given services. See Apply.
func AddLogicalConnections(services []diagram.Entity, conns []diagram.Connection) []diagram.Connection {
	return Apply(DefaultPatterns, services, conns)
}

// Apply returns a copy of conns with one edge added for every pattern pair
// whose endpoints are both present, unless that directed pair is already
// connected. Only resolved services take part; stubs have no known role.
// Applying the result again adds nothing.
func Apply(patterns []Pattern, services []diagram.Entity, conns []diagram.Connection) []diagram.Connection {
	out := append([]diagram.Connection(nil), conns...)

	byTitle := make(map[string][]string)
	for _, s := range services {
		rs, ok := s.(diagram.ResolvedService)
		if !ok {
			continue
		}
		key := ontology.Normalize(rs.Title)
		byTitle[key] = append(byTitle[key], rs.ID)
	}
	if len(byTitle) < 2 {
		return out
	}

	seen := make(map[[2]string]bool, len(out))
	for _, c := range out {
		seen[[2]string{c.From, c.To}] = true
	}
	for _, p := range patterns {
		for _, ft := range p.From {
			for _, from := range byTitle[ontology.Normalize(ft)] {
				for _, tt := range p.To {
					for _, to := range byTitle[ontology.Normalize(tt)] {
						key := [2]string{from, to}
						if from == to || seen[key] {
							continue
						}
						seen[key] = true
						out = append(out, diagram.Connection{From: from, To: to, Label: p.Label})
					}
				}
			}
		}
	}
	return out
}
