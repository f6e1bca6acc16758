package category

// Info is the category assigned to a title and the copy shown next to it.
type Info struct {
	Category                string   `json:"category" yaml:"category"`
	Description             string   `json:"description" yaml:"description"`
	KeySkills               []string `json:"key_skills" yaml:"key_skills"`
	TypicalResponsibilities []string `json:"typical_responsibilities" yaml:"typical_responsibilities"`
	CareerPath              []string `json:"career_path" yaml:"career_path"`
}

func (i Info) clone() Info {
	i.KeySkills = append([]string(nil), i.KeySkills...)
	i.TypicalResponsibilities = append([]string(nil), i.TypicalResponsibilities...)
	i.CareerPath = append([]string(nil), i.CareerPath...)
	return i
}

// Rule maps titles to a category. Without a Match predicate the rule fires
// when any keyword matches and no exclusion does.
type Rule struct {
	Info
	Keywords []string
	Excludes []string
	Match    func(Title) bool
}

func (r Rule) matches(t Title) bool {
	if r.Match != nil {
		return r.Match(t)
	}
	return t.HasAny(r.Keywords...) && !t.HasAny(r.Excludes...)
}

// FallbackCategory is assigned when no rule matches.
const FallbackCategory = "Professional"

var fallbackInfo = Info{
	Category:    FallbackCategory,
	Description: "Specialized professional roles that apply domain expertise to deliver services, advice or outcomes for an organization or its clients.",
	KeySkills:   []string{"Communication", "Problem solving", "Domain expertise", "Time management", "Collaboration"},
	TypicalResponsibilities: []string{
		"Deliver work to professional and quality standards",
		"Coordinate with colleagues and stakeholders",
		"Keep skills and certifications current",
		"Document work and report progress",
	},
	CareerPath: []string{"Associate", "Professional", "Senior Professional", "Lead / Principal", "Manager or Specialist Consultant"},
}

// Fallback returns the info assigned to unmatched titles.
func Fallback() Info { return fallbackInfo.clone() }

var (
	techKeywords = []string{
		"software", "developer", "programmer", "devops", "sre", "it", "cybersecurity",
		"data scientist", "data analyst", "data engineer", "machine learning", "database administrator",
		"dba", "sysadmin", "system administrator", "systems administrator", "network administrator",
		"web", "frontend", "backend", "full stack", "fullstack", "ux", "ui", "qa", "tester",
		"information technology", "computer", "cloud", "help desk", "helpdesk", "scrum master",
		"business intelligence", "blockchain", "coder",
	}

	// Engineer titles qualified by one of these are software-side.
	techEngineerQualifiers = []string{
		"software", "web", "mobile", "cloud", "data", "devops", "frontend", "front", "backend", "back",
		"full", "fullstack", "ml", "machine learning", "ai", "security", "network", "systems", "platform",
		"site reliability", "qa", "test", "automation", "infrastructure", "ios", "android", "game", "embedded software",
	}

	engineeringQualifiers = []string{
		"mechanical", "civil", "electrical", "chemical", "structural", "aerospace", "biomedical",
		"environmental", "industrial", "petroleum", "mining", "nuclear", "manufacturing", "materials",
		"geotechnical", "hvac", "process", "project", "design", "automotive", "marine", "agricultural",
		"electronics", "mechatronics", "quality", "production", "maintenance", "field", "transportation",
	}

	// Titles carrying one of these belong to a functional category even
	// when they also say "manager" or "director".
	managementExclusions = []string{
		"finance", "financial", "accounting", "accounts", "tax", "payroll", "treasury", "credit",
		"hr", "human resources", "recruiting", "recruitment", "talent", "people",
		"legal", "compliance", "contracts",
		"sales", "marketing", "brand", "advertising", "account", "business development",
	}
)

func isEngineerTitle(t Title) bool {
	return t.HasAny("engineer", "engineering")
}

func isTechTitle(t Title) bool {
	if t.HasAny(techKeywords...) {
		return true
	}
	return isEngineerTitle(t) && t.HasAny(techEngineerQualifiers...)
}

func isEngineeringTitle(t Title) bool {
	return isEngineerTitle(t) &&
		t.HasAny(engineeringQualifiers...) &&
		!t.HasAny(techEngineerQualifiers...)
}

// DefaultRules returns the ordered rule table. Order decides ties: a title
// matching several rules takes the first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Info: Info{
				Category:                "Technology",
				Description:             "Roles that design, build, secure and operate software, data and IT systems.",
				KeySkills:               []string{"Programming", "System design", "Cloud platforms", "Data analysis", "Debugging"},
				TypicalResponsibilities: []string{"Build and maintain software or infrastructure", "Review code and designs", "Troubleshoot production issues", "Collaborate with product teams"},
				CareerPath:              []string{"Junior Developer", "Software Engineer", "Senior Engineer", "Staff / Principal Engineer", "Engineering Manager or CTO"},
			},
			Match: isTechTitle,
		},
		{
			Info: Info{
				Category:                "Healthcare",
				Description:             "Clinical and allied health roles providing diagnosis, treatment and care to patients.",
				KeySkills:               []string{"Patient care", "Clinical knowledge", "Medical documentation", "Empathy", "Attention to detail"},
				TypicalResponsibilities: []string{"Assess and treat patients", "Maintain accurate medical records", "Coordinate care with other clinicians", "Follow safety and hygiene protocols"},
				CareerPath:              []string{"Assistant / Technician", "Licensed Practitioner", "Senior Clinician", "Clinical Lead", "Department Director"},
			},
			Keywords: []string{
				"nurse", "nursing", "physician", "doctor", "surgeon", "dentist", "dental", "pharmacist",
				"pharmacy", "therapist", "therapy", "medical", "clinical", "clinician", "health", "healthcare",
				"paramedic", "emt", "radiologist", "radiology", "hygienist", "veterinarian", "veterinary",
				"optometrist", "caregiver", "psychiatrist", "psychologist", "midwife", "anesthesiologist",
				"chiropractor", "phlebotomist", "sonographer", "dietitian", "nutritionist", "pediatrician",
				"hospital", "patient",
			},
		},
		{
			Info: Info{
				Category:                "Finance & Accounting",
				Description:             "Roles that manage money, record transactions, assess risk and advise on financial decisions.",
				KeySkills:               []string{"Financial analysis", "Accounting standards", "Spreadsheet modeling", "Regulatory compliance", "Attention to detail"},
				TypicalResponsibilities: []string{"Prepare financial statements and reports", "Analyze budgets and forecasts", "Ensure regulatory compliance", "Advise on financial decisions"},
				CareerPath:              []string{"Analyst / Junior Accountant", "Senior Analyst", "Finance Manager", "Controller", "CFO"},
			},
			Keywords: []string{
				"accountant", "accounting", "auditor", "audit", "bookkeeper", "bookkeeping", "financial",
				"finance", "treasurer", "treasury", "controller", "actuary", "tax", "payroll", "loan officer",
				"credit analyst", "investment", "banker", "banking", "underwriter", "cfo", "teller", "cpa",
			},
		},
		{
			Info: Info{
				Category:                "Legal",
				Description:             "Roles that advise on, draft and enforce laws, contracts and regulatory obligations.",
				KeySkills:               []string{"Legal research", "Drafting", "Negotiation", "Regulatory knowledge", "Critical thinking"},
				TypicalResponsibilities: []string{"Advise clients or the business on legal matters", "Draft and review contracts", "Represent parties in proceedings", "Monitor regulatory changes"},
				CareerPath:              []string{"Paralegal / Legal Assistant", "Associate", "Senior Associate", "Partner or General Counsel"},
			},
			Keywords: []string{
				"lawyer", "attorney", "paralegal", "legal", "counsel", "judge", "solicitor", "barrister",
				"notary", "compliance", "law clerk", "magistrate", "litigation",
			},
		},
		{
			Info: Info{
				Category:                "Human Resources",
				Description:             "Roles that attract, develop, pay and support an organization's people.",
				KeySkills:               []string{"Recruiting", "Employment law", "Interviewing", "Conflict resolution", "HR systems"},
				TypicalResponsibilities: []string{"Recruit and onboard employees", "Administer benefits and compensation", "Handle employee relations", "Maintain HR policies"},
				CareerPath:              []string{"HR Assistant", "HR Generalist", "HR Business Partner", "HR Manager", "Chief People Officer"},
			},
			Keywords: []string{
				"hr", "human resources", "recruiter", "recruiting", "recruitment", "talent acquisition",
				"benefits", "compensation", "people operations", "training coordinator",
			},
		},
		{
			Info: Info{
				Category:                "Sales & Marketing",
				Description:             "Roles that generate demand, win customers and grow revenue.",
				KeySkills:               []string{"Negotiation", "Customer relationships", "Market research", "Communication", "CRM tools"},
				TypicalResponsibilities: []string{"Prospect and close new business", "Plan and run campaigns", "Manage key accounts", "Track pipeline and market performance"},
				CareerPath:              []string{"Sales / Marketing Associate", "Account Executive", "Senior Account Manager", "Sales or Marketing Manager", "VP of Sales / CMO"},
			},
			Keywords: []string{
				"sales", "salesperson", "marketing", "marketer", "account executive", "account manager",
				"business development", "brand", "seo", "social media", "advertising", "public relations",
				"real estate", "realtor", "insurance agent", "merchandiser", "retail", "telemarketer",
			},
		},
		{
			Info: Info{
				Category:                "Engineering",
				Description:             "Roles that apply engineering principles to design, build and maintain physical systems and structures.",
				KeySkills:               []string{"CAD", "Technical analysis", "Project management", "Mathematics", "Safety standards"},
				TypicalResponsibilities: []string{"Design and test systems or components", "Prepare technical drawings and specifications", "Oversee construction or production", "Ensure compliance with codes and standards"},
				CareerPath:              []string{"Graduate Engineer", "Engineer", "Senior Engineer", "Principal Engineer", "Engineering Director"},
			},
			Match: isEngineeringTitle,
		},
		{
			Info: Info{
				Category:                "Management",
				Description:             "Roles that lead teams, set direction and are accountable for operational results.",
				KeySkills:               []string{"Leadership", "Strategic planning", "Budgeting", "Decision making", "People management"},
				TypicalResponsibilities: []string{"Set goals and priorities", "Manage budgets and resources", "Lead and develop staff", "Report results to leadership"},
				CareerPath:              []string{"Team Lead", "Manager", "Senior Manager", "Director", "Vice President or Executive"},
			},
			Keywords: []string{
				"manager", "management", "director", "executive", "ceo", "coo", "president", "vice president",
				"supervisor", "chief", "head", "superintendent", "general manager", "owner",
			},
			Excludes: managementExclusions,
		},
		{
			Info: Info{
				Category:                "Education",
				Description:             "Roles that teach, train and support learners across schools, universities and organizations.",
				KeySkills:               []string{"Instruction", "Curriculum design", "Classroom management", "Assessment", "Communication"},
				TypicalResponsibilities: []string{"Plan and deliver lessons", "Assess student progress", "Support individual learners", "Communicate with families or stakeholders"},
				CareerPath:              []string{"Teaching Assistant", "Teacher / Instructor", "Senior Teacher", "Department Head", "Principal or Dean"},
			},
			Keywords: []string{
				"teacher", "teaching", "professor", "instructor", "tutor", "lecturer", "principal", "educator",
				"education", "librarian", "school", "dean", "trainer", "faculty",
			},
		},
		{
			Info: Info{
				Category:                "Science & Research",
				Description:             "Roles that investigate natural and social phenomena through experiments, data and analysis.",
				KeySkills:               []string{"Research methods", "Laboratory techniques", "Statistics", "Scientific writing", "Critical thinking"},
				TypicalResponsibilities: []string{"Design and run experiments", "Analyze and interpret data", "Publish findings", "Maintain laboratory equipment and safety"},
				CareerPath:              []string{"Research Assistant", "Scientist", "Senior Scientist", "Principal Investigator", "Research Director"},
			},
			Keywords: []string{
				"scientist", "researcher", "research", "chemist", "biologist", "physicist", "laboratory", "lab",
				"microbiologist", "geologist", "statistician", "economist", "mathematician", "astronomer",
				"ecologist", "epidemiologist",
			},
		},
		{
			Info: Info{
				Category:                "Creative & Design",
				Description:             "Roles that create visual, written, audio and interactive content.",
				KeySkills:               []string{"Creativity", "Design tools", "Storytelling", "Visual communication", "Attention to detail"},
				TypicalResponsibilities: []string{"Produce creative concepts and assets", "Incorporate feedback from clients", "Maintain brand and style consistency", "Manage creative deadlines"},
				CareerPath:              []string{"Junior Designer / Writer", "Designer / Writer", "Senior Creative", "Art or Creative Director"},
			},
			Keywords: []string{
				"designer", "design", "artist", "writer", "editor", "photographer", "animator", "illustrator",
				"copywriter", "graphic", "producer", "musician", "actor", "videographer", "journalist",
				"creative", "art director",
			},
		},
		{
			Info: Info{
				Category:                "Construction & Trades",
				Description:             "Skilled trades that build, install and repair structures and equipment.",
				KeySkills:               []string{"Technical trade skills", "Blueprint reading", "Tool operation", "Safety compliance", "Physical stamina"},
				TypicalResponsibilities: []string{"Install and repair systems and structures", "Read plans and specifications", "Follow safety regulations", "Estimate materials and time"},
				CareerPath:              []string{"Apprentice", "Journeyman", "Master Tradesperson", "Foreman", "Contractor or Site Manager"},
			},
			Keywords: []string{
				"electrician", "plumber", "carpenter", "welder", "mason", "roofer", "construction", "hvac",
				"contractor", "builder", "mechanic", "installer", "foreman", "architect", "surveyor",
				"pipefitter", "glazier", "drywall", "bricklayer", "technician",
			},
		},
		{
			Info: Info{
				Category:                "Manufacturing & Production",
				Description:             "Roles that operate equipment and processes to produce goods at consistent quality.",
				KeySkills:               []string{"Machine operation", "Quality control", "Lean manufacturing", "Safety procedures", "Mechanical aptitude"},
				TypicalResponsibilities: []string{"Operate and monitor production equipment", "Inspect products for defects", "Maintain production records", "Follow standard operating procedures"},
				CareerPath:              []string{"Production Worker", "Machine Operator", "Lead Operator", "Production Supervisor", "Plant Manager"},
			},
			Keywords: []string{
				"machinist", "assembler", "production", "manufacturing", "fabricator", "quality control",
				"inspector", "machine operator", "factory", "plant", "packer", "tool and die",
			},
		},
		{
			Info: Info{
				Category:                "Transportation & Logistics",
				Description:             "Roles that move people and goods and manage the supply chain.",
				KeySkills:               []string{"Route planning", "Inventory management", "Vehicle operation", "Safety regulations", "Time management"},
				TypicalResponsibilities: []string{"Transport goods or passengers safely", "Track shipments and inventory", "Coordinate schedules and routes", "Maintain logs and compliance records"},
				CareerPath:              []string{"Driver / Warehouse Associate", "Senior Operator", "Dispatcher / Coordinator", "Logistics Manager", "Supply Chain Director"},
			},
			Keywords: []string{
				"driver", "trucker", "pilot", "logistics", "warehouse", "forklift", "dispatcher", "courier",
				"delivery", "shipping", "supply chain", "flight attendant", "freight", "mover", "chauffeur",
			},
		},
		{
			Info: Info{
				Category:                "Hospitality & Food Service",
				Description:             "Roles that prepare food and deliver guest experiences in restaurants, hotels and venues.",
				KeySkills:               []string{"Customer service", "Food safety", "Teamwork", "Multitasking", "Cash handling"},
				TypicalResponsibilities: []string{"Prepare and serve food and drinks", "Welcome and assist guests", "Keep areas clean and safe", "Handle payments and orders"},
				CareerPath:              []string{"Crew Member", "Cook / Server", "Shift Lead", "Restaurant or Hotel Manager", "Operations Director"},
			},
			Keywords: []string{
				"chef", "cook", "waiter", "waitress", "server", "bartender", "barista", "hotel", "housekeeper",
				"housekeeping", "dishwasher", "host", "hostess", "food service", "restaurant", "concierge",
				"baker", "catering", "sommelier",
			},
		},
		{
			Info: Info{
				Category:                "Public Safety & Government",
				Description:             "Roles that protect the public and deliver government services.",
				KeySkills:               []string{"Situational awareness", "Regulations and procedures", "Physical fitness", "Communication", "Crisis response"},
				TypicalResponsibilities: []string{"Respond to emergencies and incidents", "Enforce laws and regulations", "Patrol and protect communities", "Prepare official reports"},
				CareerPath:              []string{"Officer / Recruit", "Senior Officer", "Sergeant / Supervisor", "Lieutenant / Captain", "Chief or Commissioner"},
			},
			Keywords: []string{
				"police", "firefighter", "correctional officer", "detective", "sheriff", "soldier", "military",
				"security guard", "guard", "government", "public safety", "postal", "border patrol",
			},
		},
		{
			Info: Info{
				Category:                "Customer Service",
				Description:             "Roles that answer customer questions, resolve problems and keep customers satisfied.",
				KeySkills:               []string{"Active listening", "Problem solving", "Patience", "Product knowledge", "CRM software"},
				TypicalResponsibilities: []string{"Respond to customer inquiries", "Resolve complaints and issues", "Process orders and returns", "Record interactions"},
				CareerPath:              []string{"Customer Service Representative", "Senior Representative", "Team Lead", "Customer Service Manager"},
			},
			Keywords: []string{
				"customer service", "customer support", "call center", "cashier", "customer success",
				"client service", "support specialist", "customer care",
			},
		},
		{
			Info: Info{
				Category:                "Administrative & Support",
				Description:             "Roles that keep offices running through scheduling, records and coordination.",
				KeySkills:               []string{"Organization", "Office software", "Scheduling", "Written communication", "Data entry"},
				TypicalResponsibilities: []string{"Manage calendars and correspondence", "Maintain files and records", "Coordinate meetings and travel", "Support team operations"},
				CareerPath:              []string{"Office Assistant", "Administrative Assistant", "Executive Assistant", "Office Manager", "Operations Manager"},
			},
			Keywords: []string{
				"administrative", "assistant", "secretary", "receptionist", "clerk", "office", "data entry",
				"typist", "coordinator", "scheduler", "clerical",
			},
		},
	}
}
