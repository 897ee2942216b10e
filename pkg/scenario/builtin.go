package scenario

var freeScenario = Scenario{
	ID:           FreeID,
	Label:        "자유 대화",
	Emoji:        "💬",
	Description:  "어떤 주제든 편하게 영어로 대화",
	Color:        "bg-blue-50 border-blue-100",
	AccentColor:  "text-blue-500",
	SystemPrompt: freeSystemPrompt,
	Opening: Opening{
		Kind:     OpeningRandomTopic,
		Template: freeTopicTemplate,
		Topics: []string{
			"favorite food or a restaurant you love",
			"a recent movie or TV show",
			"travel bucket list",
			"weekend plans",
			"current weather",
			"a hobby or sport you enjoy",
			"music you like lately",
			"pets",
			"morning or night routine",
			"coffee or tea preference",
			"a book you recently read",
			"dream vacation",
			"online shopping habits",
			"a funny or interesting thing that happened recently",
			"favorite season and why",
		},
	},
}

var roleplays = []Definition{
	{
		ID:          "restaurant",
		Label:       "식당",
		Emoji:       "🍽️",
		Description: "메뉴 주문부터 계산까지 실전 연습",
		Color:       "bg-orange-50 border-orange-100",
		AccentColor: "text-orange-500",
		Role:        "a restaurant staff role",
		Situations: []string{
			"A cheerful waiter at a busy Friday-night bistro — tables are full, you're rushing but friendly",
			"A calm waitress at a quiet Tuesday lunch diner — relaxed, chatty, recommending today's special",
			"A hip brunch spot barista-waiter hybrid — trendy menu, oat milk options, Instagram-worthy dishes",
			"A slightly flustered waiter at a family diner — short-staffed today, apologetic but warm",
			"A formal maître d' at a upscale steakhouse — polished, asks about occasions or dietary needs",
			"A food truck cashier at a lunch rush — fast-paced, simple menu, lots of regulars",
		},
		OpeningInstruction: `Jump immediately into character with your opening line — no meta-commentary, no "okay let's start". Greet the customer, ask how many, seat them, and keep the conversation going naturally.`,
	},
	{
		ID:          "airport",
		Label:       "공항",
		Emoji:       "✈️",
		Description: "체크인부터 보딩까지 공항 영어 연습",
		Color:       "bg-sky-50 border-sky-100",
		AccentColor: "text-sky-500",
		Role:        "an airport staff role",
		Situations: []string{
			"A check-in agent during a calm morning shift — thorough, asks about baggage and seat preference",
			"A frantic gate agent during holiday season — long queues, boarding is delayed, managing passengers",
			"A premium check-in agent at a business-class counter — formal, attentive, offers upgrades",
			"A security officer at the screening checkpoint — strict but polite, asking about liquids and laptops",
			"An information desk staff at arrivals — helping a confused passenger find baggage claim or transport",
			"A gate agent making a boarding announcement — asking for boarding pass, checking zones",
		},
	},
	{
		ID:          "convenience",
		Label:       "편의점",
		Emoji:       "🏪",
		Description: "편의점에서 쓰는 생활 영어 연습",
		Color:       "bg-green-50 border-green-100",
		AccentColor: "text-green-500",
		Role:        "a convenience store cashier",
		Situations: []string{
			"A bored late-night cashier at an almost-empty store — slow night, a bit chatty",
			"A fast-moving morning cashier during commuter rush — efficient, quick small talk",
			"A friendly cashier who notices the customer looks lost — offers to help find items",
			"A cashier running a weekend promotion — mentions a buy-one-get-one deal",
			"A cashier at a tourist-area store — used to helping foreigners, extra patient",
			"A new trainee cashier — slightly unsure, double-checks prices, apologizes for being slow",
		},
	},
	{
		ID:          "hotel",
		Label:       "호텔",
		Emoji:       "🏨",
		Description: "체크인·룸서비스·컴플레인 영어 연습",
		Color:       "bg-purple-50 border-purple-100",
		AccentColor: "text-purple-500",
		Role:        "a hotel staff role",
		Situations: []string{
			"A front desk agent at a 5-star hotel — impeccably polite, proactively offers amenities and upgrades",
			"A front desk agent at a budget hotel — practical and efficient, no frills but helpful",
			"A concierge helping a guest plan their day — recommends restaurants, tours, and local tips",
			"A front desk agent dealing with a complaint — guest's room isn't ready or there's a noise issue",
			"A phone operator handling a room service order — taking a late-night food order",
			"A checkout agent in the morning rush — processing bills, arranging airport transport",
		},
	},
	{
		ID:          "cafe",
		Label:       "카페",
		Emoji:       "☕",
		Description: "음료 주문부터 커스터마이징까지",
		Color:       "bg-amber-50 border-amber-100",
		AccentColor: "text-amber-600",
		Role:        "a cafe staff role",
		Situations: []string{
			"A cheerful Starbucks-style barista during morning rush — fast, asks for name, lots of customization options",
			"A chill specialty coffee shop barista — slow pour-over, asks about flavor preferences, explains single-origin beans",
			"A cafe cashier on a slow rainy afternoon — relaxed, recommends a seasonal drink, makes small talk",
			"A barista dealing with a complex custom order — patiently clarifying oat milk, no foam, extra shot, etc.",
			"A drive-through barista — quick back-and-forth, repeats the order, gives total",
			"A cafe worker who just ran out of an item — apologizes, suggests an alternative",
		},
	},
	{
		ID:          "taxi",
		Label:       "택시",
		Emoji:       "🚕",
		Description: "목적지 안내부터 요금 계산까지",
		Color:       "bg-yellow-50 border-yellow-100",
		AccentColor: "text-yellow-600",
		Role:        "a taxi or rideshare driver",
		Situations: []string{
			"A chatty cab driver in New York — loves talking about the city, asks where you're from",
			"A quiet Uber driver — professional, GPS is on, only speaks when necessary",
			"A driver stuck in heavy traffic — apologizes for the delay, suggests an alternate route",
			"A driver picking up from the airport — asks about the trip, helps with luggage",
			"A driver who took a wrong turn — realizes it and offers a small discount",
			"A late-night driver — a little tired, making small talk to stay awake",
		},
		OpeningInstruction: `Jump immediately into character with your opening line — no meta-commentary, no "okay let's start". Greet the passenger, confirm the destination, and continue.`,
	},
	{
		ID:          "directions",
		Label:       "길 묻기",
		Emoji:       "🗺️",
		Description: "낯선 거리에서 길 찾는 영어 연습",
		Color:       "bg-teal-50 border-teal-100",
		AccentColor: "text-teal-600",
		Role:        "a local pedestrian",
		Situations: []string{
			"A friendly local on a quiet street — happy to help, gives detailed landmark-based directions",
			"A busy office worker on their lunch break — short on time but still tries to help",
			"A tourist who also doesn't know the area well — tries to help using the map on their phone",
			"A local near a confusing intersection — explains one-way streets and tricky turns carefully",
			"A shopkeeper standing outside their store — knows the neighborhood perfectly, very specific directions",
			"A jogger who stops to help — out of breath, gives quick directions, then continues running",
		},
		OpeningInstruction: "Jump immediately into character — set the scene briefly (where you are) and invite the user to ask. No meta-commentary.",
	},
	{
		ID:          "shopping",
		Label:       "쇼핑",
		Emoji:       "🛍️",
		Description: "사이즈·교환·환불 실전 영어 연습",
		Color:       "bg-pink-50 border-pink-100",
		AccentColor: "text-pink-500",
		Role:        "a retail store staff member",
		Situations: []string{
			"A helpful sales associate at a clothing store — greets warmly, asks if looking for something specific",
			"A staff member during a big sale event — mentions discounts, directs to sale racks",
			"A fitting room attendant — manages the number of items, gives feedback if asked",
			"A cashier processing a return — asks for receipt, checks the condition of the item",
			"A staff member at a shoe store — brings out different sizes, checks the fit",
			"A staff member at an electronics store — explains product features, asks about budget",
		},
	},
	{
		ID:          "hospital",
		Label:       "병원",
		Emoji:       "🏥",
		Description: "증상 설명부터 처방까지 병원 영어",
		Color:       "bg-red-50 border-red-100",
		AccentColor: "text-red-500",
		Role:        "a hospital or clinic staff member",
		Situations: []string{
			"A receptionist at a walk-in clinic — asks for name, date of birth, reason for visit, insurance",
			"A nurse doing an initial assessment — asks about symptoms, pain level (1–10), medical history",
			"A doctor in a general consultation — listens to symptoms, asks follow-up questions, gives advice",
			"A pharmacist at the dispensary counter — explains medication dosage, side effects, and instructions",
			"A receptionist scheduling a follow-up appointment — checks availability, confirms the date and time",
			"An ER receptionist with an urgent patient — triages quickly, asks main complaint and vital signs",
		},
	},
}

var defaultCatalog = buildDefault()

func buildDefault() *Catalog {
	scenarios := make([]Scenario, 0, len(roleplays)+1)
	scenarios = append(scenarios, freeScenario)
	for _, d := range roleplays {
		scenarios = append(scenarios, d.Scenario())
	}
	return NewCatalog(scenarios...)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Builtin returns the built-in scenarios in catalog order.
func Builtin() []Scenario {
	return defaultCatalog.All()
}
