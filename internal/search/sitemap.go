package search

import (
	"strings"

	"github.com/jepco-agent/backend/internal/language"
)

// SiteMap is the fixed map of known site paths, rooted at the base domain.
// Paths are never discovered dynamically; this table is the whole universe
// the engine searches. Built once at startup and shared read-only.
type SiteMap struct {
	BaseURL    string
	Categories []PathCategory
	AllPaths   []string
	General    []string
}

// PathCategory ties a topic's bilingual trigger keywords to the site paths
// that cover it.
type PathCategory struct {
	Name     string
	Keywords []string
	Pages    []string
}

// sitePaths lists every known page, language prefix omitted.
var sitePaths = []string{
	"/Home",
	"/Home/AboutUs",
	"/Home/Vision",
	"/Home/Mission",
	"/Home/History",
	"/Home/OrganizationalChart",
	"/Home/CustomerService",
	"/Home/ServiceStepPage",
	"/Home/ElectronicServices",
	"/Home/BillInquiry",
	"/Home/PayBill",
	"/Home/NewConnection",
	"/Home/TransferSubscription",
	"/Home/CancelSubscription",
	"/Home/ComplaintSubmission",
	"/Home/Tariffs",
	"/Home/ElectricityTariffs",
	"/Home/Pricing",
	"/Home/RateSchedule",
	"/Home/ContactUs",
	"/Home/EmergencyNumbers",
	"/Home/ServiceAreas",
	"/Home/OfficeLocations",
	"/Home/WorkingHours",
	"/Home/News",
	"/Home/Announcements",
	"/Home/Tenders",
	"/Home/Careers",
	"/Home/Safety",
	"/Home/PowerOutages",
	"/Home/Maintenance",
	"/Home/Projects",
	"/Home/FAQ",
	"/Home/Terms",
	"/Home/Privacy",
	"/Home/SiteMap",
}

var pathCategories = []PathCategory{
	{
		Name:     "billing",
		Keywords: []string{"فاتورة", "دفع", "تسديد", "حساب", "bill", "payment", "pay", "account"},
		Pages:    []string{"/Home/BillInquiry", "/Home/PayBill", "/Home/ElectronicServices", "/Home/Tariffs", "/Home/Pricing"},
	},
	{
		Name:     "services",
		Keywords: []string{"خدمة", "خدمات", "طلب", "اشتراك", "service", "request", "subscription"},
		Pages:    []string{"/Home/CustomerService", "/Home/ServiceStepPage", "/Home/ElectronicServices", "/Home/NewConnection"},
	},
	{
		Name:     "contact",
		Keywords: []string{"اتصال", "تواصل", "هاتف", "رقم", "contact", "phone", "call", "support"},
		Pages:    []string{"/Home/ContactUs", "/Home/EmergencyNumbers", "/Home/CustomerService", "/Home/OfficeLocations"},
	},
	{
		Name:     "about",
		Keywords: []string{"عن", "شركة", "جيبكو", "تاريخ", "about", "company", "jepco", "history"},
		Pages:    []string{"/Home/AboutUs", "/Home/Vision", "/Home/Mission", "/Home/History", "/Home/OrganizationalChart"},
	},
	{
		Name:     "technical",
		Keywords: []string{"انقطاع", "عطل", "صيانة", "مشروع", "outage", "fault", "maintenance", "project"},
		Pages:    []string{"/Home/PowerOutages", "/Home/Maintenance", "/Home/Projects", "/Home/Safety"},
	},
	{
		Name:     "news",
		Keywords: []string{"أخبار", "إعلان", "مناقصة", "وظيفة", "news", "announcement", "tender", "career"},
		Pages:    []string{"/Home/News", "/Home/Announcements", "/Home/Tenders", "/Home/Careers"},
	},
	{
		Name:     "locations",
		Keywords: []string{"منطقة", "موقع", "عنوان", "مكتب", "area", "location", "address", "office"},
		Pages:    []string{"/Home/ServiceAreas", "/Home/OfficeLocations", "/Home/WorkingHours"},
	},
	{
		Name:     "help",
		Keywords: []string{"مساعدة", "سؤال", "شكوى", "help", "question", "faq", "complaint"},
		Pages:    []string{"/Home/FAQ", "/Home/ComplaintSubmission", "/Home/CustomerService"},
	},
}

// generalPages back-fill the priority list when no topic category matches.
var generalPages = []string{
	"/Home/CustomerService",
	"/Home/ElectronicServices",
	"/Home/ServiceStepPage",
	"/Home/ContactUs",
	"/Home/FAQ",
}

// tariffPages are the pricing-focused subset the tariff resolver visits.
var tariffPages = []string{
	"/Home/Tariffs",
	"/Home/ElectricityTariffs",
	"/Home/Pricing",
	"/Home/CustomerService",
	"/Home/ServiceStepPage",
}

// NewSiteMap builds the path tables for baseURL.
func NewSiteMap(baseURL string) *SiteMap {
	return &SiteMap{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Categories: pathCategories,
		AllPaths:   sitePaths,
		General:    generalPages,
	}
}

// langPrefix maps a language to the site's URL section.
func langPrefix(lang language.Language) string {
	if lang.ArabicFamily() {
		return "/ar"
	}
	return "/en"
}

// HomePath returns the language-local home page path.
func (m *SiteMap) HomePath(lang language.Language) string {
	return langPrefix(lang) + "/Home"
}

// URL joins a language-prefixed path onto the base domain.
func (m *SiteMap) URL(path string) string {
	return m.BaseURL + path
}

// Localize prefixes a bare path with the language section.
func (m *SiteMap) Localize(path string, lang language.Language) string {
	return langPrefix(lang) + path
}

// TariffPaths returns the language-local tariff page paths, home first.
func (m *SiteMap) TariffPaths(lang language.Language) []string {
	paths := []string{m.HomePath(lang)}
	for _, p := range tariffPages {
		paths = append(paths, m.Localize(p, lang))
	}
	return paths
}
