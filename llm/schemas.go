package llm

var (
	ReportSchema = mustCompile("report", `{
  "type": "object",
  "required": ["overall_score", "overall_risk_level", "executive_summary", "findings"],
  "properties": {
    "overall_score": {"type": "number"},
    "overall_risk_level": {"type": "string"},
    "executive_summary": {"type": "string"},
    "missing_elements": {"type": "array", "items": {"type": "string"}},
    "findings": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["area", "status", "risk_level", "issue", "suggestion"],
        "properties": {
          "area": {"type": "string"},
          "status": {"type": "string"},
          "risk_level": {"type": "string"},
          "issue": {"type": "string"},
          "suggestion": {"type": "string"},
          "applicable_regulations": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`)

	SOPSchema = mustCompile("sop classification", `{
  "type": "object",
  "required": ["is_sop"],
  "properties": {
    "is_sop": {"type": "boolean"},
    "reason": {"type": "string"},
    "document_type": {"type": "string"}
  }
}`)

	DomainSchema = mustCompile("domain classification", `{
  "type": "object",
  "required": ["domain"],
  "properties": {
    "domain": {"type": "string"},
    "confidence": {"type": "number"},
    "reason": {"type": "string"}
  }
}`)
)
