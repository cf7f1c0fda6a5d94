package scraper

import (
	"reguguard-backend/models"
)

// fallbackRegulations is the built-in corpus used when sources cannot be fetched.
var fallbackRegulations = []models.Regulation{
	{
		SourceName: "OSHA - Workplace Safety Standards",
		SourceURL:  "https://www.osha.gov/laws-regs",
		Category:   models.CategoryHealthSafety,
		Title:      "General Duty Clause - Section 5(a)(1)",
		Text:       "Each employer shall furnish to each of his employees employment and a place of employment which are free from recognized hazards that are causing or are likely to cause death or serious physical harm to his employees. Employers must comply with occupational safety and health standards promulgated under the OSH Act. Employers must provide personal protective equipment (PPE) at no cost to employees. Training must be provided in a language and vocabulary workers can understand.",
	},
	{
		SourceName: "EPA - Environmental Regulations",
		SourceURL:  "https://www.epa.gov/regulatory-information",
		Category:   models.CategoryEnvironmental,
		Title:      "Clean Air Act & RCRA Requirements",
		Text:       "Businesses must comply with the Clean Air Act standards for emissions. Resource Conservation and Recovery Act (RCRA) requires proper handling, storage, and disposal of hazardous waste. Facilities must maintain records of waste disposal and report to EPA. Environmental impact assessments are required for new operations. Spill prevention and countermeasure plans must be maintained.",
	},
	{
		SourceName: "HHS - HIPAA Privacy Rule",
		SourceURL:  "https://www.hhs.gov/hipaa",
		Category:   models.CategoryDataPrivacy,
		Title:      "HIPAA Privacy & Security Rules",
		Text:       "Protected Health Information (PHI) must be safeguarded with administrative, physical, and technical safeguards. Covered entities must provide Notice of Privacy Practices. Minimum necessary standard applies to all uses and disclosures. Business Associate Agreements required for third parties handling PHI. Breach notification required within 60 days of discovery. Individuals have right to access and amend their records.",
	},
	{
		SourceName: "DOL - Employment Laws",
		SourceURL:  "https://www.dol.gov/general/aboutdol/majorlaws",
		Category:   models.CategoryEmployment,
		Title:      "Fair Labor Standards Act (FLSA) & FMLA",
		Text:       "The Fair Labor Standards Act establishes minimum wage ($7.25/hour federal), overtime pay (1.5x for hours over 40/week), recordkeeping, and child labor standards. The Family and Medical Leave Act provides eligible employees up to 12 weeks of unpaid, job-protected leave per year. Anti-discrimination laws prohibit employment decisions based on race, color, religion, sex, national origin, age, disability, or genetic information.",
	},
	{
		SourceName: "IRS - Tax Compliance",
		SourceURL:  "https://www.irs.gov/businesses",
		Category:   models.CategoryFinancial,
		Title:      "Business Tax Obligations",
		Text:       "All businesses must obtain an Employer Identification Number (EIN). Quarterly estimated tax payments required. Employment taxes must be deposited on time. Form 1099 reporting for payments over $600 to independent contractors. Record retention requirement of 3-7 years depending on document type. Proper classification of workers as employees vs independent contractors.",
	},
	{
		SourceName: "FTC - Consumer Protection",
		SourceURL:  "https://www.ftc.gov/legal-library/browse/rules",
		Category:   models.CategoryLegal,
		Title:      "FTC Act & Consumer Protection Rules",
		Text:       "Section 5 of the FTC Act prohibits unfair or deceptive acts or practices in commerce. Truth in advertising standards require substantiation of claims. CAN-SPAM Act requires commercial emails include opt-out mechanisms. Children's Online Privacy Protection Act (COPPA) protects children under 13. Clear and conspicuous disclosure of material terms required in all consumer transactions.",
	},
	{
		SourceName: "NIST - Cybersecurity Framework",
		SourceURL:  "https://www.nist.gov/cyberframework",
		Category:   models.CategoryITSecurity,
		Title:      "NIST Cybersecurity Framework Core Functions",
		Text:       "The framework organizes cybersecurity activities into five core functions: Identify (asset management, risk assessment), Protect (access control, data security, training), Detect (anomalies, continuous monitoring), Respond (response planning, communications, mitigation), Recover (recovery planning, improvements). Organizations should implement multi-factor authentication, encryption at rest and in transit, regular security assessments, and incident response plans.",
	},
	{
		SourceName: "eCFR - Code of Federal Regulations",
		SourceURL:  "https://www.ecfr.gov",
		Category:   models.CategoryLegal,
		Title:      "CFR General Requirements",
		Text:       "The Code of Federal Regulations (CFR) is the codification of the general and permanent rules published in the Federal Register by the executive departments and agencies of the Federal Government. Title 21 covers Food and Drugs; Title 29 Labor; Title 40 Protection of Environment. Organizations must comply with applicable titles and maintain current awareness of amendments.",
	},
	{
		SourceName: "FDA - Regulatory Procedures",
		SourceURL:  "https://www.fda.gov/about-fda/regulatory-procedures-manual",
		Category:   models.CategoryQualityControl,
		Title:      "FDA SOP and Documentation Standards",
		Text:       "Standard Operating Procedures (SOPs) must be written, approved, and maintained. Changes require documented review and approval. Training on SOPs must be documented. Records must be retained per regulatory requirements. Quality systems should include management review, corrective action, and document control.",
	},
	{
		SourceName: "CFPB - Consumer Financial Protection",
		SourceURL:  "https://www.consumerfinance.gov/rules-policy/regulations/",
		Category:   models.CategoryLegal,
		Title:      "Consumer Financial Protection Regulations",
		Text:       "Consumer financial products and services must comply with disclosure requirements, fair lending, debt collection rules, and consumer complaint procedures. Recordkeeping and compliance management systems are required. Unfair, deceptive, or abusive acts or practices (UDAAP) are prohibited.",
	},
	{
		SourceName: "SEC - Small Business",
		SourceURL:  "https://www.sec.gov/smallbusiness",
		Category:   models.CategoryFinancial,
		Title:      "SEC Disclosure and Reporting",
		Text:       "Small businesses raising capital or subject to SEC rules must maintain accurate books and records, file required reports, and provide disclosures to investors. Internal controls and compliance programs should be documented.",
	},
	{
		SourceName: "CISA - Cybersecurity",
		SourceURL:  "https://www.cisa.gov",
		Category:   models.CategoryITSecurity,
		Title:      "Cybersecurity Best Practices",
		Text:       "Implement defense in depth, patch management, access controls, and incident response plans. Monitor advisories for threats. Report significant cyber incidents as required. Protect critical systems and data with encryption and segmentation.",
	},
}

// FallbackRegulations returns a copy of the built-in corpus.
func FallbackRegulations() []models.Regulation {
	out := make([]models.Regulation, len(fallbackRegulations))
	for i, r := range fallbackRegulations {
		r.Status = models.RegulationFallback
		out[i] = r
	}
	return out
}

// FallbackFor returns the built-in records of category, or the first record when
// the category has none.
func FallbackFor(category models.Category) []models.Regulation {
	all := FallbackRegulations()
	var out []models.Regulation
	for _, r := range all {
		if r.Category == category {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return all[:1]
	}
	return out
}
