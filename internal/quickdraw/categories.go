package quickdraw

// BabyFriendlyCategories are Quick Draw categories that suit flashcards
// for toddlers
var BabyFriendlyCategories = []string{
	// Animals
	"bear", "bee", "bird", "butterfly", "cat", "cow", "crab", "dog",
	"dolphin", "duck", "elephant", "fish", "frog", "giraffe", "horse",
	"lion", "monkey", "mouse", "octopus", "owl", "panda", "penguin", "pig",
	"rabbit", "sheep", "snail", "snake", "tiger", "whale", "zebra",

	// Food
	"apple", "banana", "cake", "carrot", "cookie", "grapes", "ice cream",
	"pear", "pizza", "strawberry", "watermelon",

	// Nature
	"cloud", "flower", "moon", "rain", "star", "sun", "tree",

	// Things and vehicles
	"airplane", "bicycle", "book", "bus", "car", "hat", "helicopter",
	"house", "sailboat", "snowman", "teddy-bear", "train", "truck",
	"umbrella",

	// Body
	"ear", "eye", "foot", "hand", "mouth", "nose",
}
