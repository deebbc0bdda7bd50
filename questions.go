package main

// question is one entry of a trivia pool. Every entry carries at least four
// wrong options so a full decoy set can be dealt to players who do not hold
// the correct answer.
type question struct {
	Text    string
	Correct string
	Wrong   []string
}

// Pool for the shared streak room. It repeats indefinitely; the question
// pointer wraps back to the start once the pool is exhausted.
var streakQuestions = []question{
	{
		Text:    "Which river runs through the old town?",
		Correct: "The Verlan",
		Wrong:   []string{"The Ousel", "The Marbeck", "The Tyne", "The Cress"},
	},
	{
		Text:    "What animal tops the fountain in Guild Square?",
		Correct: "A heron",
		Wrong:   []string{"A lion", "A dolphin", "A stag", "An eagle"},
	},
	{
		Text:    "In which year was the clocktower rebuilt after the fire?",
		Correct: "1743",
		Wrong:   []string{"1698", "1721", "1766", "1802"},
	},
	{
		Text:    "How many arches does the stone bridge have?",
		Correct: "Seven",
		Wrong:   []string{"Five", "Six", "Eight", "Nine"},
	},
	{
		Text:    "What trade gave Tanners' Lane its name?",
		Correct: "Leather making",
		Wrong:   []string{"Weaving", "Brewing", "Rope making", "Dye mixing"},
	},
	{
		Text:    "Which gate is the only one still standing from the city wall?",
		Correct: "The North Gate",
		Wrong:   []string{"The East Gate", "The Harbour Gate", "The King's Gate", "The Mill Gate"},
	},
	{
		Text:    "What is carved above the library entrance?",
		Correct: "An open book and a lantern",
		Wrong:   []string{"Two crossed keys", "A ship at anchor", "An owl on a branch", "A rising sun"},
	},
	{
		Text:    "Which bell in the cathedral is the oldest?",
		Correct: "Great Maud",
		Wrong:   []string{"Old Simon", "The Curfew Bell", "Saint Brice", "The Pilgrim"},
	},
	{
		Text:    "What colour are the doors along Fishers' Row?",
		Correct: "Blue",
		Wrong:   []string{"Red", "Green", "Yellow", "Black"},
	},
	{
		Text:    "How many steps lead up to the observatory?",
		Correct: "112",
		Wrong:   []string{"88", "99", "121", "140"},
	},
}

// General knowledge pool for the group-consensus quiz.
var commonQuestions = []question{
	{
		Text:    "Which planet has the most moons?",
		Correct: "Saturn",
		Wrong:   []string{"Jupiter", "Neptune", "Uranus", "Mars"},
	},
	{
		Text:    "What is the largest desert on Earth?",
		Correct: "Antarctica",
		Wrong:   []string{"The Sahara", "The Gobi", "The Kalahari", "The Atacama"},
	},
	{
		Text:    "Which metal is liquid at room temperature?",
		Correct: "Mercury",
		Wrong:   []string{"Gallium", "Lead", "Tin", "Sodium"},
	},
	{
		Text:    "How many strings does a standard violin have?",
		Correct: "Four",
		Wrong:   []string{"Five", "Six", "Three", "Eight"},
	},
	{
		Text:    "Which ocean is the deepest?",
		Correct: "The Pacific",
		Wrong:   []string{"The Atlantic", "The Indian", "The Arctic", "The Southern"},
	},
	{
		Text:    "What gas do plants absorb from the air?",
		Correct: "Carbon dioxide",
		Wrong:   []string{"Oxygen", "Nitrogen", "Hydrogen", "Methane"},
	},
	{
		Text:    "Which country has the longest coastline?",
		Correct: "Canada",
		Wrong:   []string{"Russia", "Australia", "Norway", "Indonesia"},
	},
	{
		Text:    "How many bones does an adult human have?",
		Correct: "206",
		Wrong:   []string{"201", "212", "195", "220"},
	},
	{
		Text:    "Which language has the most native speakers?",
		Correct: "Mandarin Chinese",
		Wrong:   []string{"English", "Spanish", "Hindi", "Arabic"},
	},
	{
		Text:    "What is the tallest grass in the world?",
		Correct: "Bamboo",
		Wrong:   []string{"Sugarcane", "Pampas grass", "Elephant grass", "Papyrus"},
	},
	{
		Text:    "Which bird lays the largest egg?",
		Correct: "The ostrich",
		Wrong:   []string{"The emu", "The albatross", "The cassowary", "The swan"},
	},
	{
		Text:    "How many time zones does China use?",
		Correct: "One",
		Wrong:   []string{"Three", "Four", "Five", "Two"},
	},
}

// Specialist pool for the timed quiz: navigation, maps, and field craft.
var specialistQuestions = []question{
	{
		Text:    "On a compass, what bearing is due west?",
		Correct: "270 degrees",
		Wrong:   []string{"90 degrees", "180 degrees", "225 degrees", "315 degrees"},
	},
	{
		Text:    "What do close contour lines on a map indicate?",
		Correct: "Steep ground",
		Wrong:   []string{"Flat ground", "Marshland", "Dense forest", "A river valley"},
	},
	{
		Text:    "Which star do northern navigators steer by?",
		Correct: "Polaris",
		Wrong:   []string{"Sirius", "Vega", "Betelgeuse", "Arcturus"},
	},
	{
		Text:    "One nautical mile equals how many metres?",
		Correct: "1852",
		Wrong:   []string{"1609", "1000", "2000", "1500"},
	},
	{
		Text:    "What does a trig point mark?",
		Correct: "A surveyed summit or reference point",
		Wrong:   []string{"A water source", "A county border", "A cave entrance", "A footpath junction"},
	},
	{
		Text:    "Latitude 0 degrees is better known as what?",
		Correct: "The equator",
		Wrong:   []string{"The prime meridian", "The tropic of Cancer", "The date line", "The antimeridian"},
	},
	{
		Text:    "Which moss-growth rule of thumb is actually unreliable?",
		Correct: "Moss only grows on the north side of trees",
		Wrong:   []string{"Moss prefers damp surfaces", "Moss has no roots", "Moss spreads by spores", "Moss can survive drought"},
	},
	{
		Text:    "What does UTM stand for in mapping?",
		Correct: "Universal Transverse Mercator",
		Wrong:   []string{"Uniform Terrain Model", "Universal Terrain Mapping", "United Topographic Measure", "Universal Triangulated Mesh"},
	},
	{
		Text:    "A GPS fix needs signals from at least how many satellites?",
		Correct: "Four",
		Wrong:   []string{"Two", "Three", "Five", "Six"},
	},
	{
		Text:    "What is the magnetic declination?",
		Correct: "The angle between true north and magnetic north",
		Wrong:   []string{"The compass needle's dip", "The bearing to the pole star", "Grid north minus map north", "The error of a worn compass"},
	},
}

// Tech pool for the turn-based quiz.
var techQuestions = []question{
	{
		Text:    "What does HTTP status 418 mean?",
		Correct: "I'm a teapot",
		Wrong:   []string{"Too many requests", "Upgrade required", "Not acceptable", "Gone"},
	},
	{
		Text:    "Which data structure gives O(1) average lookup by key?",
		Correct: "A hash table",
		Wrong:   []string{"A binary search tree", "A linked list", "A sorted array", "A heap"},
	},
	{
		Text:    "What does the 'S' in HTTPS stand for?",
		Correct: "Secure",
		Wrong:   []string{"Socket", "Session", "Signed", "Standard"},
	},
	{
		Text:    "Which port does DNS use by default?",
		Correct: "53",
		Wrong:   []string{"25", "80", "110", "443"},
	},
	{
		Text:    "What base is hexadecimal?",
		Correct: "16",
		Wrong:   []string{"8", "10", "12", "64"},
	},
	{
		Text:    "Which company created the Go programming language?",
		Correct: "Google",
		Wrong:   []string{"Microsoft", "Mozilla", "Sun", "IBM"},
	},
	{
		Text:    "What does RAID 1 provide?",
		Correct: "Mirroring",
		Wrong:   []string{"Striping", "Parity", "Compression", "Deduplication"},
	},
	{
		Text:    "Which protocol do websockets upgrade from?",
		Correct: "HTTP",
		Wrong:   []string{"FTP", "SMTP", "TCP", "UDP"},
	},
	{
		Text:    "How many bits are in an IPv6 address?",
		Correct: "128",
		Wrong:   []string{"32", "64", "96", "256"},
	},
	{
		Text:    "What does CSS stand for?",
		Correct: "Cascading Style Sheets",
		Wrong:   []string{"Computed Style Syntax", "Client Side Scripting", "Coded Style Schema", "Canonical Style System"},
	},
}
