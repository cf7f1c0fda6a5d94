package classifier

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneralDomain is used when no domain has any signal.
const GeneralDomain = "General"

// Domain is one detectable industry domain.
type Domain struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
	Core     []string `yaml:"core"`
}

// Definitions is the ordered domain table. Order breaks score ties.
type Definitions struct {
	Domains []Domain `yaml:"domains"`
}

// Labels returns the domain labels followed by General.
func (d Definitions) Labels() []string {
	labels := make([]string, 0, len(d.Domains)+1)
	for _, dom := range d.Domains {
		labels = append(labels, dom.Label)
	}
	return append(labels, GeneralDomain)
}

// Allowed reports whether label is a known domain or General.
func (d Definitions) Allowed(label string) bool {
	for _, l := range d.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

func (d Definitions) coreTerms() []string {
	var core []string
	for _, dom := range d.Domains {
		core = append(core, dom.Core...)
	}
	return core
}

// LoadDefinitions reads a YAML definitions file. An empty path or a missing file yields the defaults.
func LoadDefinitions(path string) (Definitions, error) {
	if path == "" {
		return DefaultDefinitions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDefinitions(), nil
		}
		return Definitions{}, fmt.Errorf("read domain definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes YAML definitions, normalizing keywords to lowercase
// and dropping empty labels and keywords.
func ParseDefinitions(data []byte) (Definitions, error) {
	var raw Definitions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definitions{}, fmt.Errorf("parse domain definitions: %w", err)
	}
	var out Definitions
	for _, dom := range raw.Domains {
		label := strings.TrimSpace(dom.Label)
		kws := normalize(dom.Keywords)
		if label == "" || len(kws) == 0 {
			continue
		}
		out.Domains = append(out.Domains, Domain{Label: label, Keywords: kws, Core: normalize(dom.Core)})
	}
	if len(out.Domains) == 0 {
		return Definitions{}, errors.New("domain definitions contain no usable domains")
	}
	return out, nil
}

func normalize(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DefaultDefinitions returns the built-in domain table.
func DefaultDefinitions() Definitions {
	return Definitions{Domains: []Domain{
		{
			Label: "Pharma / Health",
			Core:  []string{"pharmaceutical", "pharma", "clinical trial", "fda", "gmp", "drug"},
			Keywords: []string{
				"patient", "clinical trial", "clinical research", "gmp", "good manufacturing practice",
				"gcp", "good clinical practice", "gdp", "good distribution practice", "pharma",
				"pharmaceutical", "drug substance", "medication", "medical device", "medicinal product",
				"adverse event", "pharmacovigilance", "fda", "ema", "mhra", "hipaa",
				"protected health information", "hospital", "clinic", "sponsor", "investigator site",
				"cfr 21", "title 21", "batch record", "protocol amendment", "informed consent",
				"subject enrollment", "healthcare facility", "medical professional", "patient care",
				"medical protocol", "treatment procedure", "clinical endpoint", "biomedical",
				"health record", "patient safety", "medical ethics",
			},
		},
		{
			Label: "Industrial / Mining",
			Core:  []string{"mining", "ore", "mine", "extraction", "extractive", "mineral", "milling", "smelting"},
			Keywords: []string{
				"mining", "mine", "ore", "extraction", "extractive", "mining site", "mining facility",
				"mining operations", "mining operation", "open pit", "open pit mining", "open-pit",
				"open-pit mining", "underground mine", "underground mining", "surface mining",
				"subsurface", "mineable", "mineralization", "ore deposit", "ore production", "ore body",
				"ore grade", "mineral", "minerals", "mineral processing",
				"drill rig", "drilling", "drilling operation", "blast", "blasting", "blasting operation",
				"explosive", "explosives", "explosives handling", "detonation", "haul truck", "haul road",
				"shovel", "loader", "excavator", "dredge", "pump", "mill", "milling", "beneficiation",
				"concentration", "smelter", "smelting",
				"pit wall", "slope stability", "mine ventilation", "ventilation system", "shaft",
				"decline", "stope", "stoping", "face", "working face", "rockburst", "water management",
				"groundwater", "dewatering",
				"tailings", "tailings dam", "tailings storage facility", "tsf", "waste rock",
				"waste management", "mine waste", "disposal",
				"msha", "mine safety", "mining accident", "mining incident", "safety protocol",
				"ventilation standard", "occupational safety",
				"manufacturing line", "production line", "assembly line", "oee",
				"overall equipment effectiveness", "quality control", "qc laboratory",
				"equipment qualification", "maintenance schedule", "preventive maintenance",
				"safety stock", "warehouse", "inventory control", "iso 9001", "iso 14001",
				"production schedule", "batch number", "material specification", "workstation",
				"production capacity", "factory", "plant", "manufacturing process",
				"farm", "farming", "grower", "harvest", "crop", "pesticide", "fertilizer", "usda",
				"good agricultural practice", "gap certification", "gap program", "food safety",
				"haccp", "hazard analysis", "packhouse", "packing facility", "processing plant",
				"cold chain", "traceability", "food handler", "produce", "organic certification",
			},
		},
		{
			Label: "Finance",
			Core:  []string{"bank", "trading", "securities", "investment", "aml", "kyc"},
			Keywords: []string{
				"bank", "banking institution", "lending", "credit risk", "loan portfolio", "securities",
				"investment bank", "broker dealer", "finra", "sec", "basel accords", "aml",
				"anti-money laundering", "kyc", "know your customer", "sox", "sarbanes-oxley",
				"capital adequacy", "liquidity coverage", "deposit", "settlement", "trading",
				"portfolio management", "derivatives", "compliance officer", "risk management committee",
				"financial institution", "credit union", "savings bank", "insurance", "underwriting",
				"premium", "policy holder", "claims", "actuarial", "reserve", "asset management",
				"wealth management", "investment management", "hedge fund", "private equity",
				"venture capital",
			},
		},
	}}
}
