/*
Copyright © 2023 Zak Reynolds <zak.reynolds@zakjr.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package persona

func v(key, value string) Field { return Field{Key: key, Value: value} }
func l(key string, vs ...string) Field { return Field{Key: key, Values: vs} }

// Company is the default bundle for marketing the business.
func Company() Bundle {
	return Bundle{
		Name:  "company",
		Style: StyleCompany,
		User: []Field{
			v("name", "Breezy Baldwin"),
			v("profession", "VP of Marketing"),
			v("company", "Breezy Baldwin"),
			v("industry", "Tech Marketing"),
			v("voice", "Professional, helpful, and strategic"),
			v("goals", "Effective marketing campaigns and strategies"),
			v("preferences", "Data-driven decisions, creative solutions"),
			l("expertise", "Digital marketing", "Content strategy", "Social media"),
			v("target_audience", "Tech companies and startups"),
			v("brand_values", "Innovation, data-driven decisions, and strategic growth"),
		},
		Context: []Field{
			l("products", "Marketing consulting", "AI marketing assistant"),
			l("services", "marketing consulting", "AI marketing consulting"),
			l("competitors", "Traditional marketing agencies", "Generic AI tools"),
			v("unique_value_prop", "AI-powered marketing strategies and automation specifically for tech companies"),
			l("recent_campaigns", "AI marketing assistant launch", "Tech startup outreach"),
			l("challenges", "Scaling marketing operations", "AI adoption in traditional marketing"),
			v("business_model", "B2B consulting and AI-powered marketing tools"),
			v("pricing_strategy", "Value-based pricing for tech companies"),
			v("sales_process", "Consultation-first approach with custom solutions"),
			l("key_metrics", "Client acquisition cost", "Marketing ROI", "Campaign performance"),
			l("success_stories", "Helped 3 tech startups scale marketing", "Built AI assistant that automates content creation"),
			v("current_focus", "Expanding AI marketing tools and thought leadership in tech marketing"),
		},
	}
}

// Personal is the self-promotion bundle.
func Personal() Bundle {
	return Bundle{
		Name:  "personal",
		Style: StylePersonal,
		User: []Field{
			v("name", "Breezy Baldwin"),
			v("profession", "Tech Marketing, App creator, front-end developer, ex-photographer"),
			v("company", "none"),
			v("industry", "Software"),
			v("voice", "Authentic, fun, technical, weird"),
			v("goals", "Gain followers, spark engagement and conversations"),
			v("preferences", "Storytelling, teaching, networking"),
			l("expertise", "Tech branding", "Tech Thought leadership", "Tech Content strategy",
				"front-end development", "app development", "early stage startups", "GTM strategy",
				"entrepreneurship", "product development", "UI/UX design", "trekking", "art history",
				"environmental activism", "graphic design"),
			v("target_audience", "Tech professionals, entrepreneurs, and business leaders"),
			v("brand_values", "Authenticity, creativity, mentorship, and social justice"),
		},
		Context: []Field{
			v("personal_brand", "Tech marketing leader and AI innovation expert"),
			v("unique_story", "Tech founder, ex-VP of Marketing with expertise in app development and AI"),
			l("content_themes", "AI in tech", "Marketing automation", "App development", "Tech leadership"),
			l("platforms", "LinkedIn", "X", "Industry publications", "Speaking engagements"),
			l("achievements", "Built Hovr, a carpooling app", "Led GTM at two successful startups - Replicated and Qase"),
			l("networking_goals", "Connect with tech founders", "Speak at tech conferences", "Build thought leadership"),
			v("content_strategy", "Share insights on AI, marketing tips, and industry trends"),
			l("target_connections", "CEOs", "CMOs", "Tech entrepreneurs", "AI enthusiasts", "Business leaders"),
			l("speaking_topics", "AI in SaaS and tech marketing", "Marketing Automation"),
			l("recent_content", "AI marketing assistant launch", "State of SaaS marketing", "Tech marketing insights"),
		},
	}
}
