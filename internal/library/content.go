package library

// Built-in service content. Display names are kept in caps to match the
// house proposal style; bodies use the controlled markdown subset the
// renderer understands (**bold**, # headings, "- " bullets).

var serviceTemplates = []ServiceTemplate{
	{
		ServiceKey:  "marketing_machine",
		DisplayName: "THE MARKETING MACHINE",
		Subsections: []Subsection{
			{
				Number: 1,
				Title:  "Strategy and Positioning",
				BodyMarkdown: "We start with a working session to map your market, your offer, and the audiences that matter most. The output is a **positioning document** your whole team can rally behind.\n" +
					"- Competitive landscape review\n" +
					"- Ideal customer profiles\n" +
					"- Core messaging pillars",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 2,
				Title:  "Content Engine",
				BodyMarkdown: "A repeatable monthly cadence of content built from your positioning. Every piece ladders up to a campaign objective, so nothing is published just to fill a calendar.\n" +
					"- Editorial calendar managed for you\n" +
					"- Long-form articles, email sequences, and social cutdowns\n" +
					"- Quarterly content performance review",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 3,
				Title:  "Reporting and Optimization",
				BodyMarkdown: "You get a **single monthly scorecard** covering traffic, pipeline influence, and what we are changing next month. No vanity dashboards.",
				AllowClientSpecificEdits: false,
			},
		},
		Investment: Investment{
			Model:      InvestmentMonthly,
			Amount:     4500,
			Currency:   "USD",
			Notes:      "Minimum 6 month engagement",
			RenderHint: "$4,500 per month",
		},
		Timeline: "Onboarding in weeks 1-2, first full campaign cycle live by week 6.",
		Outcome:  "A predictable marketing engine that produces qualified pipeline without heroics from your internal team.",
	},
	{
		ServiceKey:  "seo_hosting",
		DisplayName: "SEO AND MANAGED HOSTING",
		Subsections: []Subsection{
			{
				Number: 1,
				Title:  "Technical Foundation",
				BodyMarkdown: "We migrate your site to managed infrastructure tuned for speed and stability, then fix the technical issues holding back your rankings.\n" +
					"- Core Web Vitals remediation\n" +
					"- Structured data and indexing hygiene\n" +
					"- Uptime monitoring with same-day response",
				AllowClientSpecificEdits: false,
			},
			{
				Number: 2,
				Title:  "Ongoing Search Growth",
				BodyMarkdown: "A monthly program of keyword expansion, on-page optimization, and authority building focused on the terms your buyers actually use.",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 3,
				Title:  "Quarterly Search Review",
				BodyMarkdown: "Every quarter we present **ranking movement, organic pipeline, and the next set of target terms** so search stays connected to revenue.",
				AllowClientSpecificEdits: false,
			},
		},
		Investment: Investment{
			Model:      InvestmentMonthly,
			Amount:     1800,
			Currency:   "USD",
			RenderHint: "$1,800 per month",
		},
		Timeline: "Migration complete within 30 days, measurable ranking movement typically within 90 days.",
		Outcome:  "A fast, secure site that climbs steadily for the searches that bring you customers.",
	},
	{
		ServiceKey:  "internal_comms",
		DisplayName: "INTERNAL COMMUNICATIONS PROGRAM",
		Subsections: []Subsection{
			{
				Number: 1,
				Title:  "Communications Audit",
				BodyMarkdown: "We interview leadership and staff, review your current channels, and deliver a candid read on where messages are getting lost.",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 2,
				Title:  "Channel and Cadence Design",
				BodyMarkdown: "A right-sized internal comms system: which updates go where, how often, and who owns them.\n" +
					"- Leadership update template and rhythm\n" +
					"- All-hands structure and agenda bank\n" +
					"- Change-announcement playbook",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 3,
				Title:  "Launch and Handoff",
				BodyMarkdown: "We run the first full cycle alongside your team, then hand off a documented system your people can operate without us.",
				AllowClientSpecificEdits: false,
			},
		},
		Investment: Investment{
			Model:      InvestmentOneTime,
			Amount:     9500,
			Currency:   "USD",
			RenderHint: "$9,500 one-time",
		},
		Timeline: "Audit in weeks 1-3, system design in weeks 4-6, launch support through week 10.",
		Outcome:  "Staff hear important news from leadership first, not through the grapevine.",
	},
	{
		ServiceKey:  "brand_foundations",
		DisplayName: "BRAND FOUNDATIONS",
		Subsections: []Subsection{
			{
				Number: 1,
				Title:  "Brand Discovery",
				BodyMarkdown: "Structured sessions with your founders and best customers to surface what your brand actually stands for, in the words people already use about you.",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 2,
				Title:  "Identity System",
				BodyMarkdown: "The visual and verbal system that makes you recognizable everywhere you show up.\n" +
					"- Logo refinement and usage rules\n" +
					"- Color, type, and imagery guidance\n" +
					"- Voice and tone guide with real examples",
				AllowClientSpecificEdits: false,
			},
			{
				Number: 3,
				Title:  "Rollout Kit",
				BodyMarkdown: "Templates for the assets you touch weekly: decks, proposals, social, and email, all pre-built in your new system.",
				AllowClientSpecificEdits: true,
			},
		},
		Investment: Investment{
			Model:      InvestmentCustom,
			Amount:     0,
			Currency:   "USD",
			Notes:      "Scoped after discovery",
			RenderHint: "Custom quote after discovery",
		},
		Timeline: "Typically 8-12 weeks end to end depending on rollout scope.",
		Outcome:  "A brand your team applies consistently without asking a designer for every asset.",
	},
	{
		ServiceKey:  "paid_media",
		DisplayName: "PAID MEDIA MANAGEMENT",
		Subsections: []Subsection{
			{
				Number: 1,
				Title:  "Account Architecture",
				BodyMarkdown: "We rebuild your ad accounts around clean conversion tracking and audience structure before a dollar of new spend goes in.",
				AllowClientSpecificEdits: false,
			},
			{
				Number: 2,
				Title:  "Campaign Operations",
				BodyMarkdown: "Weekly management of creative testing, bids, and budgets across the channels that fit your funnel.\n" +
					"- Creative refresh every 4-6 weeks\n" +
					"- Budget pacing reviewed weekly\n" +
					"- Landing page recommendations included",
				AllowClientSpecificEdits: true,
			},
			{
				Number: 3,
				Title:  "Performance Reporting",
				BodyMarkdown: "One scorecard: spend, cost per qualified lead, and return. We flag underperforming spend **before** it becomes a budget problem.",
				AllowClientSpecificEdits: false,
			},
		},
		Investment: Investment{
			Model:      InvestmentMonthly,
			Amount:     2500,
			Currency:   "USD",
			Notes:      "Management fee, ad spend billed direct to client",
			RenderHint: "$2,500 per month plus ad spend",
		},
		Timeline: "Account rebuild in weeks 1-3, full testing cadence from week 4.",
		Outcome:  "Paid channels you can scale up or down with confidence in the numbers.",
	},
}

var standardTerms = TermsBlock{
	Version: TermsVersion,
	Clauses: []Clause{
		{
			Number: 1,
			Title:  "Engagement",
			Body:   "This proposal describes the services to be provided once accepted in writing. Work begins on the agreed start date after the initial invoice is paid.",
		},
		{
			Number: 2,
			Title:  "Fees and Payment",
			Body:   "Fees are as stated in the investment section of each service. Invoices are due within 15 days. Recurring fees are billed at the start of each period.",
		},
		{
			Number: 3,
			Title:  "Client Responsibilities",
			Body:   "Timely access to accounts, approvals, and a single point of contact are required. Delays in client feedback extend delivery dates accordingly.",
		},
		{
			Number: 4,
			Title:  "Ownership",
			Body:   "Upon full payment, deliverables created specifically for the client become client property. Pre-existing tools, frameworks, and templates remain agency property.",
		},
		{
			Number: 5,
			Title:  "Termination",
			Body:   "Either party may end an ongoing engagement with 30 days written notice. Work completed through the notice period is billable.",
		},
		{
			Number: 6,
			Title:  "Confidentiality",
			Body:   "Both parties will keep non-public information received from the other confidential and use it only for this engagement.",
		},
	},
}
