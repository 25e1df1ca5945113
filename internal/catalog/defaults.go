package catalog

import "lammastore/internal/models"

// The default dataset ships with the client and serves as the fallback
// whenever the remote store is empty or unreachable.

func DefaultPackages() []models.Package {
	return []models.Package{
		{
			ID:          "1",
			Title:       "لَمّة طمأنينة",
			Category:    models.CategoryFood,
			Price:       models.FixedPrice(25),
			Description: "سلة غذائية أساسية مع رسالة حب مخصصة",
			Image:       "assets/img/basket_safe.webp",
		},
		{
			ID:          "2",
			Title:       "لَمّة إفطار صائم",
			Category:    models.CategoryFood,
			Price:       models.FixedPrice(35),
			Description: "وجبة إفطار جاهزة + تمر + خبز طازج",
			Image:       "assets/img/meal_ramadan.webp",
		},
		{
			ID:          "3",
			Title:       "لَمّة حنين",
			Category:    models.CategoryGifts,
			Price:       models.FixedPrice(30),
			Description: "باقة ورد طبيعي + عطر فاخر + بطاقة رسالة",
			Image:       "assets/img/flower_gift.webp",
		},
		{
			ID:          "4",
			Title:       "لَمّة البيت عامر",
			Category:    models.CategoryFood,
			Price:       models.FixedPrice(45),
			Description: "سلة غذائية متوسطة تكفي عائلة",
			Image:       "assets/img/basket_medium.webp",
		},
		{
			ID:          "5",
			Title:       "لَمّة راحة بال",
			Category:    models.CategoryFood,
			Price:       models.FixedPrice(60),
			Description: "سلة كبيرة + مفاجأة + توثيق التسليم",
			Image:       "assets/img/basket_large.webp",
		},
		{
			ID:          "6",
			Title:       "لَمّة حسب الطلب",
			Category:    models.CategoryCustom,
			Price:       models.QuotePrice(),
			Description: "محتوى يحدده العميل بالكامل",
			Image:       "assets/img/custom_gift.webp",
		},
	}
}

func DefaultSettings() models.Settings {
	return models.Settings{
		HeroTitle:    "بعيد عنهم؟<br><span>خلّي هديتك توصلهم</span>",
		HeroDesc:     "نوصّل محبتك لأهلك في حلب بسلال غذائية، وجبات، وهدايا مميزة.<br>مع توثيق لحظة الاستلام ودعم مباشر.",
		Whatsapp:     "963953644710",
		PrimaryColor: "#f97316",
		PaymentMethods: map[string]models.PaymentMethod{
			"mtn":      {Name: "MTN Cash", Account: "963944751485", Icon: "M", Color: "#eab308"},
			"syriatel": {Name: "Syriatel Cash", Account: "093XXXXXXX", Icon: "S", Color: "#ef4444"},
			"usdt":     {Name: "USDT (TRC20)", Account: "TXXXXXXXXXXXXX", Icon: "U", Color: "#10b981"},
		},
	}
}

func DefaultCategories() []models.Category {
	return []models.Category{
		{
			ID:          models.CategoryFood,
			Title:       "السلل الغذائية والوجبات",
			Icon:        "🍱",
			Image:       "assets/img/basket_medium.webp",
			Description: "سلال غذائية ووجبات إفطار صائم",
		},
		{
			ID:          models.CategoryGifts,
			Title:       "الورود والعطور",
			Icon:        "💐",
			Image:       "assets/img/flower_gift.webp",
			Description: "باقات ورد وهدايا مميزة",
		},
		{
			ID:          models.CategoryCustom,
			Title:       "الطلبات الخاصة",
			Icon:        "✨",
			Image:       "assets/img/custom_gift.webp",
			Description: "أي شيء تحتاجه من حلب",
		},
	}
}
