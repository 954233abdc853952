package registry

// DefaultCatalog returns the descriptor metadata for the built-in
// analyzer family. Invokers are attached separately by the handlers
// package before registration; the catalog itself is pure data.
//
// Pattern and trigger text is authored in folded ASCII (no diacritics)
// because scoring runs against the folded question.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "performance_analyzer",
			DisplayName: "Performans Analizi",
			Description: "Fon getiri, risk ve genel performans soruları",
			Examples: []string{
				"en güvenli 10 fon hangileri",
				"son 30 günde en çok kazandıran fonlar",
				"TYH fonunu analiz et",
				"en çok kaybettiren fonlar hangileri",
				"düşük riskli fon önerisi",
			},
			Keywords: []string{"güvenli", "kazandıran", "getiri", "performans", "analiz", "riskli", "kaybettiren"},
			Patterns: []Pattern{
				{Regex: `en guvenli|guvenli\s+\d*\s*fon|dusuk riskli`, Score: 0.96},
				{Regex: `en cok kazandiran|en iyi getiri|en cok kaybettiren`, Score: 0.95},
				{Regex: `fonunu analiz|analiz et\b|\bincele\b`, Score: 0.93},
				{Regex: `en iyi fon|hangi fon|fon oner`, Score: 0.88},
				{ContainsAll: []string{"fon", "performans"}, Score: 0.85},
			},
			Methods: []Method{
				{Name: "handle_safest_funds_sql_fast", Triggers: []string{"guvenli", "az riskli", "dusuk risk"}},
				{Name: "handle_top_gainers", Triggers: []string{"kazandiran", "en iyi getiri", "en cok kazanan"}},
				{Name: "handle_worst_funds", Triggers: []string{"kaybettiren", "en cok kaybeden"}},
				{Name: "handle_analysis_question_dual", Triggers: []string{"analiz", "incele", "nasil"}},
			},
			ExecutionOrder: 10,
		},
		{
			Name:        "market_overview_analyzer",
			DisplayName: "Piyasa Genel Görünümü",
			Description: "Piyasanın bütününe dair durum ve özet soruları",
			Examples: []string{
				"piyasa bugün nasıl",
				"fon piyasasının genel durumu nedir",
				"kapsamlı piyasa analizi",
			},
			Keywords: []string{"piyasa", "genel durum", "özet", "görünüm"},
			Patterns: []Pattern{
				{Regex: `piyasa.*(nasil|durum|ozet|gorunum)`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_market_overview", Triggers: []string{"piyasa", "genel"}},
				{Name: "handle_market_summary", Triggers: []string{"ozet"}},
			},
			ExecutionOrder: 15,
		},
		{
			Name:        "comparison_analyzer",
			DisplayName: "Fon Karşılaştırma",
			Description: "İki veya daha fazla fonun karşılaştırılması",
			Examples: []string{
				"TYH ile AFT fonlarını karşılaştır",
				"hangi fon daha iyi",
				"karşılaştırmalı fon analizi",
			},
			Keywords: []string{"karşılaştır", "kıyasla", "hangisi daha", "fark"},
			Patterns: []Pattern{
				{Regex: `karsilastir|kiyasla|hangisi daha`, Score: 0.92},
			},
			Methods: []Method{
				{Name: "handle_fund_comparison", Triggers: []string{"karsilastir", "kiyasla"}},
			},
			ExecutionOrder: 22,
		},
		{
			Name:        "scenario_analyzer",
			DisplayName: "Senaryo Analizi",
			Description: "Enflasyon, faiz ve kur senaryolarının fonlara etkisi",
			Examples: []string{
				"enflasyon %80 olursa hangi fonlar korur",
				"faiz artarsa fonlar ne olur",
				"dolar 50 lira olursa hangi fon kazandırır",
			},
			Keywords: []string{"enflasyon", "faiz", "olursa", "senaryo", "kriz"},
			Patterns: []Pattern{
				{Regex: `enflasyon|faiz art|devaluasyon`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_scenario_question", Triggers: []string{"olursa", "olsa", "senaryo"}},
				{Name: "handle_inflation_projection", Triggers: []string{"enflasyon"}},
			},
			ExecutionOrder: 20,
		},
		{
			Name:        "company_analyzer",
			DisplayName: "Şirket Fonları",
			Description: "Portföy yönetim şirketlerine göre fon soruları",
			Examples: []string{
				"İş Portföy fonları nasıl performans gösteriyor",
				"Ak Portföy'ün en iyi fonu hangisi",
			},
			Keywords: []string{"portföy yönetim", "şirket", "kurucu"},
			Patterns: []Pattern{
				{Regex: `portfoy (yonetim|sirket)`, Score: 0.88},
			},
			Methods: []Method{
				{Name: "handle_company_question", Triggers: []string{"portfoy", "sirket"}},
			},
			ExecutionOrder: 25,
		},
		{
			Name:        "advanced_metrics_analyzer",
			DisplayName: "Gelişmiş Metrikler",
			Description: "Beta, Sharpe, volatilite gibi metrik tabanlı taramalar",
			Examples: []string{
				"beta değeri 1'in altındaki fonlar",
				"sharpe oranı en yüksek fonlar",
				"beta 0.8 altında sharpe 1.2 üstünde fonlar",
			},
			Keywords: []string{"beta", "sharpe", "volatilite", "standart sapma", "alpha"},
			Patterns: []Pattern{
				{Regex: `\bbeta\b|\bsharpe\b|volatilite|standart sapma`, Score: 0.94},
			},
			Methods: []Method{
				{Name: "handle_combined_metrics_analysis"},
				{Name: "handle_beta_analysis", Triggers: []string{"beta"}},
				{Name: "handle_sharpe_analysis", Triggers: []string{"sharpe"}},
				{Name: "handle_volatility_analysis", Triggers: []string{"volatilite", "standart sapma"}},
			},
			ExecutionOrder: 30,
		},
		{
			Name:        "personal_finance_analyzer",
			DisplayName: "Kişisel Finans",
			Description: "Emeklilik ve birikim hedefi planlaması",
			Examples: []string{
				"emeklilik için hangi fonlara yatırım yapmalıyım",
				"35 yaşındayım emeklilik planı istiyorum",
				"ev almak için 5 yılda nasıl biriktiririm",
			},
			Keywords: []string{"emeklilik", "birikim", "hedef", "ev almak", "eğitim"},
			Patterns: []Pattern{
				{Regex: `emekli|birikim|ev almak`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_retirement_plan", Triggers: []string{"emekli"}},
				{Name: "handle_goal_plan", Triggers: []string{"ev almak", "egitim", "hedef"}},
			},
			ExecutionOrder: 35,
		},
		{
			Name:        "technical_analyzer",
			DisplayName: "Teknik Analiz",
			Description: "RSI, MACD ve hareketli ortalama tabanlı sinyaller",
			Examples: []string{
				"RSI değeri düşük fonlar hangileri",
				"MACD sinyali veren fonlar",
				"hareketli ortalamasının üstündeki fonlar",
			},
			Keywords: []string{"rsi", "macd", "bollinger", "hareketli ortalama", "sinyal", "teknik"},
			Patterns: []Pattern{
				{Regex: `teknik analiz|\bsinyal\b`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_technical_question", Triggers: []string{"rsi", "macd", "bollinger"}},
				{Name: "handle_market_technicals", Triggers: []string{"piyasa"}},
			},
			ExecutionOrder: 40,
		},
		{
			Name:        "currency_analyzer",
			DisplayName: "Döviz Fonları",
			Description: "Döviz bazlı ve döviz korumalı fon soruları",
			Examples: []string{
				"dolar bazında en iyi fonlar",
				"euro fonları ne durumda",
			},
			Keywords: []string{"dolar", "euro", "sterlin", "döviz", "kur"},
			Patterns: []Pattern{
				{Regex: `(dolar|euro|sterlin|doviz).*(fon|getiri)`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_currency_funds", Triggers: []string{"dolar", "euro", "sterlin", "doviz"}},
			},
			ExecutionOrder: 45,
		},
		{
			Name:        "portfolio_analyzer",
			DisplayName: "Portföy Önerisi",
			Description: "Tutar ve risk profiline göre dağılım önerileri",
			Examples: []string{
				"100 bin TL için portföy önerisi",
				"param nasıl dağıtmalıyım",
			},
			Keywords: []string{"portföy öner", "dağılım", "dağıt", "sepet"},
			Patterns: []Pattern{
				{Regex: `portfoy oner|nasil dagit|sepet oner`, Score: 0.9},
			},
			Methods: []Method{
				{Name: "handle_portfolio_suggestion", Triggers: []string{"oner", "dagit"}},
			},
			ExecutionOrder: 50,
		},
	}
}
