package tariff

import (
	"fmt"
	"strings"

	"github.com/jepco-agent/backend/internal/language"
)

// FormatEstimate renders a cost estimate as the localized multi-line answer
// the assembler returns directly, bypassing the model. It always names the
// calculation method, and carries the estimated-rate disclaimer when the
// fallback schedule was used.
func FormatEstimate(est Estimate, info Info, lang language.Language) string {
	if lang.ArabicFamily() {
		return formatArabic(est, info)
	}
	return formatEnglish(est, info)
}

func formatEnglish(est Estimate, info Info) string {
	var b strings.Builder

	b.WriteString("Electricity bill calculation based on JEPCO data:\n\n")
	b.WriteString("Consumption:\n")
	fmt.Fprintf(&b, "- Daily: %g kWh\n", est.DailyKwh)
	fmt.Fprintf(&b, "- Monthly: %g kWh\n\n", est.MonthlyKwh)

	b.WriteString("Estimated costs:\n")
	fmt.Fprintf(&b, "- Daily: %.3f JOD\n", est.DailyCost)
	fmt.Fprintf(&b, "- Monthly: %.2f JOD\n", est.MonthlyCost)
	fmt.Fprintf(&b, "- Yearly: %.2f JOD\n\n", est.YearlyCost)
	fmt.Fprintf(&b, "Rate used: %.3f JOD/kWh (method: %s)\n", est.RateUsed, est.Method)

	if est.Method == MethodEstimated {
		b.WriteString("\nNote: these are estimated rates. For exact current tariffs call JEPCO at 116 or visit www.jepco.com.jo\n")
	}

	if len(info.Entries) > 0 {
		b.WriteString("\nTariff information from the website:\n")
		for i, entry := range info.Entries {
			if i >= 3 {
				break
			}
			b.WriteString("- " + entry.Description + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatArabic(est Estimate, info Info) string {
	var b strings.Builder

	b.WriteString("حساب فاتورة الكهرباء حسب بيانات جيبكو:\n\n")
	b.WriteString("الاستهلاك:\n")
	fmt.Fprintf(&b, "- يوميًا: %g كيلو واط ساعة\n", est.DailyKwh)
	fmt.Fprintf(&b, "- شهريًا: %g كيلو واط ساعة\n\n", est.MonthlyKwh)

	b.WriteString("التكلفة المقدرة:\n")
	fmt.Fprintf(&b, "- يوميًا: %.3f دينار أردني\n", est.DailyCost)
	fmt.Fprintf(&b, "- شهريًا: %.2f دينار أردني\n", est.MonthlyCost)
	fmt.Fprintf(&b, "- سنويًا: %.2f دينار أردني\n\n", est.YearlyCost)
	fmt.Fprintf(&b, "السعر المستخدم: %.3f دينار/كيلو واط ساعة\n", est.RateUsed)

	if est.Method == MethodEstimated {
		b.WriteString("\nملاحظة: هذه أسعار تقديرية. للحصول على التعرفة الدقيقة اتصل بجيبكو على الرقم 116 أو زر الموقع www.jepco.com.jo\n")
	}

	if len(info.Entries) > 0 {
		b.WriteString("\nمعلومات التعرفة من الموقع:\n")
		for i, entry := range info.Entries {
			if i >= 3 {
				break
			}
			b.WriteString("- " + entry.Description + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
