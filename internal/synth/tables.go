package synth

// template is one narrative skeleton and the image tags that illustrate it.
type template struct {
	text   string
	images []string
}

var templates = []template{
	{
		text: "In the vast expanse of space, {protagonist} found themselves stationed on {setting}. The cosmic winds whispered ancient secrets as they began their daily routine, unaware that destiny was about to unfold.\n\n" +
			"It was during the third rotation of the local star when they {conflict}. The discovery sent shockwaves through their very being, challenging everything they thought they knew about the universe. The implications were staggering - this could change the course of galactic civilization forever.\n\n" +
			"Accompanied by {companion}, they embarked on a perilous journey that would test not only their courage but their understanding of reality itself. Together, they navigated through cosmic storms, decoded ancient alien languages, and faced challenges that pushed the boundaries of what was thought possible.\n\n" +
			"As they delved deeper into the mystery, they uncovered a network of interconnected worlds, each holding a piece of a cosmic puzzle that had been scattered across the galaxy eons ago. The truth they discovered would reshape the very fabric of space-time.",
		images: []string{"hero", "setting", "discovery", "journey"},
	},
	{
		text: "The stars aligned in a configuration not seen for millennia when {protagonist} arrived at {setting}. Ancient prophecies spoke of this moment, though few believed such tales could be true.\n\n" +
			"Little did they know that within the next solar cycle, they would {conflict}. The event triggered a cascade of phenomena that rippled across multiple dimensions, awakening dormant technologies and forgotten civilizations that had slumbered for countless ages.\n\n" +
			"With the invaluable assistance of {companion}, they discovered that the universe held layers of reality previously unknown to science. Each revelation led to ten more questions, creating a web of mystery that spanned across star systems and through the very essence of time itself.\n\n" +
			"Their quest became legendary, inspiring songs among the star-singers of Andromeda and earning them a place in the cosmic archives. They learned that true wisdom comes not from having all the answers, but from asking the right questions and having the courage to seek truth wherever it might lead.",
		images: []string{"prophecy", "protagonist", "cosmic-event", "companion"},
	},
	{
		text: "Deep in the cosmic void, where even light struggled to penetrate the darkness, {protagonist} was stationed on {setting}. The isolation was profound, broken only by the gentle hum of life support systems and the distant song of pulsars.\n\n" +
			"It was during the darkest hour of the cosmic night when the unexpected happened - they {conflict}. The discovery shattered the silence of space and sent urgent transmissions racing across the galaxy at faster-than-light speeds, alerting civilizations both ancient and new.\n\n" +
			"Together with {companion}, they faced challenges that tested not only their physical endurance but their mental fortitude and spiritual resolve. They encountered beings of pure energy, navigated through temporal anomalies, and witnessed the birth and death of stars in accelerated time.\n\n" +
			"Their adventure became a turning point in galactic history, proving that even in the darkest corners of space, hope and determination could illuminate the path forward. They returned as heroes, but more importantly, as guardians of knowledge that would guide future generations through the infinite mysteries of the cosmos.",
		images: []string{"void", "station", "discovery", "energy-beings"},
	},
}

// customInsertions wrap the optional custom element. %s is the element.
var customInsertions = []string{
	"Their journey took an extraordinary turn when they encountered %s. This unexpected element added layers of complexity to their mission, forcing them to adapt and evolve in ways they never imagined possible.",
	"As if the universe itself was testing their resolve, %s appeared at the most crucial moment. This encounter would prove to be the key that unlocked secrets hidden since the dawn of time.",
	"In a twist that defied all probability, %s emerged from the cosmic shadows. This revelation changed not just their understanding of the current situation, but rewrote the very laws they thought governed reality.",
}

var conclusions = []string{
	"In the end, their bravery and determination saved not just themselves, but countless worlds across the galaxy. Their names were etched in the cosmic chronicles, and their story became a beacon of hope for all who dared to dream of adventures among the stars. The universe itself seemed to smile upon their courage, opening new pathways of possibility for future explorers.",
	"Their adventure became the stuff of legends, inspiring future generations of space explorers to push beyond the boundaries of the known universe. Songs were sung of their deeds in a thousand different languages across a million worlds, and their legacy lived on in the hearts of all who yearned for discovery.",
	"What started as a routine mission evolved into an epic tale that would be told throughout the cosmos for eons to come. They had not only survived the impossible but had thrived in the face of cosmic adversity, proving that the spirit of exploration and discovery burns eternal in the hearts of the brave.",
	"They returned home forever changed, carrying with them the wisdom of the stars and the bonds forged in the depths of space. Their experiences had transformed them into something more than they were before - they had become bridges between worlds, ambassadors of hope, and guardians of the infinite possibilities that await in the vast expanse of the universe.",
}

var titlePrefixes = []string{
	"The Chronicles of",
	"Adventures in",
	"The Legend of",
	"Journey to",
	"The Mystery of",
	"Guardians of",
	"The Quest for",
	"Secrets of",
}

var titleSuffixes = []string{
	"the Cosmic Frontier",
	"the Stellar Void",
	"the Galactic Beyond",
	"the Infinite Stars",
	"the Nebula's Edge",
	"the Quantum Realm",
	"the Celestial Gateway",
	"the Astral Dimension",
}

// imageSpec is the search query and caption for an image tag. Queries may
// reference {protagonist} and {setting}.
type imageSpec struct {
	query   string
	caption string
}

var imageSpecs = map[string]imageSpec{
	"hero":          {query: "{protagonist} in futuristic space suit cosmic background", caption: "The Hero of Our Story"},
	"protagonist":   {query: "{protagonist} in futuristic space suit cosmic background", caption: "The Hero of Our Story"},
	"setting":       {query: "{setting} futuristic space environment cosmic vista", caption: "The Setting"},
	"station":       {query: "{setting} futuristic space environment cosmic vista", caption: "The Setting"},
	"discovery":     {query: "ancient alien artifact glowing mysterious cosmic discovery", caption: "The Discovery"},
	"journey":       {query: "spaceship traveling through colorful nebula cosmic journey", caption: "The Journey Begins"},
	"prophecy":      {query: "ancient cosmic prophecy glowing symbols star alignment", caption: "Ancient Prophecy"},
	"cosmic-event":  {query: "cosmic phenomenon energy waves space-time distortion", caption: "Cosmic Event"},
	"companion":     {query: "futuristic AI companion holographic assistant space technology", caption: "Trusted Companion"},
	"void":          {query: "deep space cosmic void stars darkness infinite expanse", caption: "The Cosmic Void"},
	"energy-beings": {query: "beings of pure energy cosmic entities glowing ethereal", caption: "Energy Beings"},
}

var fallbackImage = imageSpec{
	query:   "epic space adventure cosmic scene futuristic",
	caption: "Adventure Scene",
}
