package scrape

// PageContent is the structured view of one fetched page. Everything the
// retrieval pipeline scores comes from here; raw markup never leaves this
// package.
type PageContent struct {
	URL      string      `json:"url"`
	Title    string      `json:"title"`
	Headers  []Header    `json:"headers"`
	Tables   []Table     `json:"tables"`
	Links    []Link      `json:"links"`
	Forms    []Form      `json:"forms"`
	Contacts ContactInfo `json:"contacts"`

	Paragraphs []string `json:"paragraphs"`
	ListItems  []string `json:"list_items"`

	// Pattern-extracted facts.
	Pricing      []string `json:"pricing"`
	Procedures   []string `json:"procedures"`
	Requirements []string `json:"requirements"`

	FullText string `json:"full_text"`
}

type Header struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type Form struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
}

type FormField struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

type ContactInfo struct {
	Phones []string `json:"phones"`
	Emails []string `json:"emails"`
	Hours  []string `json:"hours"`
}
