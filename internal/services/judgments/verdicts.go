package judgments

import "github.com/iyunix/go-legalist/internal/domain"

var recentVerdicts = []domain.Verdict{
	{
		ID:            1,
		Title:         "Sulochana Amma vs Narayanan Nair",
		Summary:       "Section Supreme Court of India - 1994 AIR 152, 1994 SCC (2) 14",
		EffectiveDate: "Tue Oct 23 2018",
		Details:       "Clarification on inheritance rights and property succession.",
	},
	{
		ID:            2,
		Title:         "Estoppel : Indian Evidence Act, 1872 section 115",
		Summary:       "Estoppel regarding land acquisition disputes.",
		EffectiveDate: "Tue Oct 23 2018",
		Details:       "Ruling on the applicability of Estoppel against the government statutes.",
	},
	{
		ID:            3,
		Title:         "Res Judicata",
		Summary:       "Section 11 of the Code of Civil Procedure",
		EffectiveDate: "Tue Oct 23 2018",
		Details:       "Finality of judgment and preventing re-litigation of the same cause of action.",
	},
	{
		ID:            4,
		Title:         "Fundamental Rights vs Directive Principles",
		Summary:       "Minerva Mills Ltd. vs Union of India",
		EffectiveDate: "Mon Oct 22 2018",
		Details:       "Balance between Fundamental Rights and Directive Principles of State Policy.",
	},
}

// RecentVerdicts returns the curated landmark verdicts. Callers get a copy.
func RecentVerdicts() []domain.Verdict {
	out := make([]domain.Verdict, len(recentVerdicts))
	copy(out, recentVerdicts)
	return out
}
