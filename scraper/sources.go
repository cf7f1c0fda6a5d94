package scraper

import (
	"strings"

	"reguguard-backend/models"
)

const (
	defaultSelectors = "main, article, .content, body"
	fdaSelectors     = "main, article, .content, #main-content, body"
)

func source(name, url string, category models.Category, selectors string) models.SourceDefinition {
	return models.SourceDefinition{
		Name:      name,
		URL:       url,
		Category:  category,
		Selectors: splitSelectors(selectors),
	}
}

func splitSelectors(s string) []string {
	var out []string
	for _, sel := range strings.Split(s, ",") {
		if sel = strings.TrimSpace(sel); sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

// DefaultSources are the cross-domain sources fetched for every analysis.
var DefaultSources = []models.SourceDefinition{
	source("OSHA - Workplace Safety Standards", "https://www.osha.gov/laws-regs/regulations/standardnumber", models.CategoryHealthSafety, defaultSelectors),
	source("EPA - Environmental Regulations", "https://www.epa.gov/regulatory-information/laws-and-executive-orders", models.CategoryEnvironmental, defaultSelectors),
	source("FTC - Consumer Protection Rules", "https://www.ftc.gov/legal-library/browse/rules", models.CategoryLegal, defaultSelectors),
	source("HHS - HIPAA Privacy Rule", "https://www.hhs.gov/hipaa/for-professionals/privacy/index.html", models.CategoryDataPrivacy, defaultSelectors),
	source("DOL - Employment Laws", "https://www.dol.gov/general/aboutdol/majorlaws", models.CategoryEmployment, defaultSelectors),
	source("IRS - Small Business & Self-Employed", "https://www.irs.gov/businesses/small-businesses-self-employed", models.CategoryFinancial, defaultSelectors),
	source("NIST - Cybersecurity Framework", "https://www.nist.gov/cyberframework", models.CategoryITSecurity, defaultSelectors),
	source("eCFR - Code of Federal Regulations (Title 21)", "https://www.ecfr.gov/current/title-21", models.CategoryLegal, "main, #content-body, .content, body"),
	source("FDA - Regulatory Procedures (SOPs)", "https://www.fda.gov/about-fda/regulatory-procedures-manual", models.CategoryQualityControl, fdaSelectors),
	source("CFPB - Consumer Financial Protection", "https://www.consumerfinance.gov/rules-policy/regulations/", models.CategoryLegal, defaultSelectors),
	source("SEC - Small Business Compliance", "https://www.sec.gov/smallbusiness", models.CategoryFinancial, "main, #content, body"),
	source("NIST - Privacy Framework", "https://www.nist.gov/privacy-framework", models.CategoryDataPrivacy, defaultSelectors),
	source("DOL - Workplace Posters & Compliance", "https://www.dol.gov/general/topic/compliance", models.CategoryEmployment, defaultSelectors),
	source("CISA - Cybersecurity Best Practices", "https://www.cisa.gov/topics/cyber-threats-and-advisories", models.CategoryITSecurity, defaultSelectors),
	source("EEOC - Equal Employment Opportunity Laws", "https://www.eeoc.gov/laws-guidance", models.CategoryEmployment, defaultSelectors),
	source("OSHA - Small Business Handbook", "https://www.osha.gov/smallbusiness", models.CategoryHealthSafety, defaultSelectors),
	source("HHS - Office for Civil Rights", "https://www.hhs.gov/civil-rights/for-providers/index.html", models.CategoryDataPrivacy, defaultSelectors),
	source("Federal Register - Recent Rules", "https://www.federalregister.gov/documents/search", models.CategoryLegal, defaultSelectors),
	source("govinfo - Code of Federal Regulations Collection", "https://www.govinfo.gov/app/collection/cfr", models.CategoryLegal, defaultSelectors),
	source("NIOSH - Occupational Safety and Health Topics", "https://www.cdc.gov/niosh/topics", models.CategoryHealthSafety, defaultSelectors),
}

// DomainExtraSources are sector-specific sources keyed by source group.
var DomainExtraSources = map[string][]models.SourceDefinition{
	"Healthcare / Pharma": {
		source("FDA - Drug Compliance Programs", "https://www.fda.gov/drugs/compliance-and-enforcement/compliance-program-guidance-manual", models.CategoryQualityControl, fdaSelectors),
		source("FDA - Good Manufacturing Practice (GMP)", "https://www.fda.gov/drugs/pharmaceutical-quality-resources/drug-manufacturing", models.CategoryHealthSafety, defaultSelectors),
		source("NIH - Clinical Research Policies", "https://www.nih.gov/research-training/policies-guidance", models.CategoryHealthSafety, defaultSelectors),
	},
	"Financial / Banking": {
		source("FFIEC - BSA/AML Examination Manual", "https://bsaaml.ffiec.gov/manual", models.CategoryFinancial, defaultSelectors),
		source("FinCEN - AML Regulations", "https://www.fincen.gov/resources/statutes-regulations", models.CategoryFinancial, defaultSelectors),
		source("Federal Reserve - Supervisory Guidance", "https://www.federalreserve.gov/supervisionreg/regref.htm", models.CategoryFinancial, defaultSelectors),
	},
	"Legal / Law Firm": {
		source("US Courts - Federal Rules", "https://www.uscourts.gov/rules-policies/current-rules-practice-procedure", models.CategoryLegal, defaultSelectors),
		source("ABA - Model Rules of Professional Conduct", "https://www.americanbar.org/groups/professional_responsibility/publications/model_rules_of_professional_conduct/", models.CategoryLegal, defaultSelectors),
	},
	"Agriculture / Food": {
		source("USDA - Food Safety & Inspection Service", "https://www.fsis.usda.gov/regulations", models.CategoryEnvironmental, defaultSelectors),
		source("FDA - Food Safety Modernization Act (FSMA)", "https://www.fda.gov/food/food-safety-modernization-act-fsma", models.CategoryHealthSafety, defaultSelectors),
	},
	"Education / University": {
		source("ED - FERPA Regulations", "https://www2.ed.gov/policy/gen/guid/fpco/ferpa/index.html", models.CategoryDataPrivacy, defaultSelectors),
		source("ED - Title IV & Student Aid", "https://www2.ed.gov/policy/highered/reg/hearulemaking/2009/integrity.html", models.CategoryFinancial, defaultSelectors),
	},
	"Manufacturing / Industrial": {
		source("OSHA - Manufacturing Industry Standards", "https://www.osha.gov/laws-regs/by-industry/manufacturing", models.CategoryHealthSafety, defaultSelectors),
		source("NIST - Manufacturing Programs", "https://www.nist.gov/topics/manufacturing", models.CategoryQualityControl, defaultSelectors),
	},
	"Technology / Software": {
		source("NIST - Secure Software Development Framework", "https://csrc.nist.gov/publications/detail/white-paper/2020/04/23/secure-software-development-framework-ssdf/final", models.CategoryITSecurity, defaultSelectors),
		source("CISA - Software Supply Chain Security", "https://www.cisa.gov/resources-tools/resources/software-supply-chain-guidance", models.CategoryITSecurity, defaultSelectors),
	},
	"General Corporate / HR": {
		source("EEOC - Guidance on Employment Laws", "https://www.eeoc.gov/laws-guidance", models.CategoryEmployment, defaultSelectors),
	},
}

// domainGroups maps detected industry domains onto source groups.
var domainGroups = map[string][]string{
	"Pharma / Health":     {"Healthcare / Pharma"},
	"Finance":             {"Financial / Banking"},
	"Industrial / Mining": {"Manufacturing / Industrial", "Agriculture / Food"},
}

// SourceGroups returns the source group names used for domain.
func SourceGroups(domain string) []string {
	if groups, ok := domainGroups[domain]; ok {
		return groups
	}
	if _, ok := DomainExtraSources[domain]; ok {
		return []string{domain}
	}
	return nil
}

// Sources returns the sources to fetch for domain. With domainOnly set and a known
// domain only the sector sources are returned; otherwise they are appended to the
// defaults. Unknown domains get the defaults.
func Sources(domain string, domainOnly bool) []models.SourceDefinition {
	var extra []models.SourceDefinition
	for _, group := range SourceGroups(domain) {
		extra = append(extra, DomainExtraSources[group]...)
	}
	if len(extra) == 0 {
		return append([]models.SourceDefinition(nil), DefaultSources...)
	}
	if domainOnly {
		return extra
	}
	out := make([]models.SourceDefinition, 0, len(DefaultSources)+len(extra))
	out = append(out, DefaultSources...)
	return append(out, extra...)
}
