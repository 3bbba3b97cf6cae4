package labels

// defaultOverrides sends words straight to a category, ahead of any
// automatic derivation.
var defaultOverrides = map[string]string{
	"mama":    "Woman",
	"papa":    "Man",
	"baby":    "Baby",
	"grandma": "Grandmother",
	"grandpa": "Grandfather",
	"brother": "Boy",
	"sister":  "Girl",
	"aunt":    "Woman",
	"uncle":   "Man",
	"cousin":  "Child",
	"family":  "Family",
	"dog":     "Dog",
	"cat":     "Cat",
}

// defaultVariants lists fallback categories tried in order once the
// canonical forms miss.
var defaultVariants = map[string][]string{
	"arm":        {"Human arm"},
	"leg":        {"Human leg"},
	"nose":       {"Human nose"},
	"eye":        {"Human eye"},
	"mouth":      {"Human mouth"},
	"ear":        {"Human ear"},
	"hand":       {"Human hand"},
	"finger":     {"Human hand"},
	"foot":       {"Human foot"},
	"belly":      {"Human body"},
	"hair":       {"Human hair"},
	"cow":        {"Cattle"},
	"milk":       {"Milk"},
	"juice":      {"Juice"},
	"egg":        {"Egg (Food)"},
	"bread":      {"Bread"},
	"cookie":     {"Cookie"},
	"cheese":     {"Cheese"},
	"cake":       {"Cake"},
	"tea":        {"Tea"},
	"banana":     {"Banana"},
	"apple":      {"Apple"},
	"watermelon": {"Watermelon"},
	"orange":     {"Orange"},
	"grape":      {"Grape"},
	"strawberry": {"Strawberry"},
	"carrot":     {"Carrot"},
	"potato":     {"Potato"},
	"tomato":     {"Tomato"},
	"cucumber":   {"Cucumber"},
	"ice cream":  {"Ice cream"},
	"pizza":      {"Pizza"},
	"pasta":      {"Pasta"},
	"sandwich":   {"Sandwich"},
	"chicken":    {"Chicken"},
	"ball":       {"Ball"},
	"doll":       {"Doll"},
	"book":       {"Book"},
	"train":      {"Train"},
	"car":        {"Car"},
	"truck":      {"Truck"},
	"bus":        {"Bus"},
	"plane":      {"Airplane"},
	"helicopter": {"Helicopter"},
	"boat":       {"Boat"},
	"ship":       {"Ship"},
	"rocket":     {"Rocket"},
	"bicycle":    {"Bicycle"},
	"bike":       {"Bicycle"},
	"block":      {"Toy"},
	"lion":       {"Lion"},
	"tiger":      {"Tiger"},
	"elephant":   {"Elephant"},
	"giraffe":    {"Giraffe"},
	"monkey":     {"Monkey"},
	"zebra":      {"Zebra"},
	"frog":       {"Frog"},
	"butterfly":  {"Butterfly"},
	"snake":      {"Snake"},
	"turtle":     {"Turtle"},
	"penguin":    {"Penguin"},
	"owl":        {"Owl"},
	"pig":        {"Pig"},
	"duck":       {"Duck"},
	"bird":       {"Bird"},
	"fish":       {"Fish"},
	"cat":        {"Cat"},
	"dog":        {"Dog"},
	"mouse":      {"Mouse"},
	"bear":       {"Bear"},
	"horse":      {"Horse"},
	"sheep":      {"Sheep"},
	"rabbit":     {"Rabbit"},
	"family":     {"House", "Person"},
	"friend":     {"Person"},
	"baby":       {"Boy", "Girl", "Person"},
	"mama":       {"Woman"},
	"papa":       {"Man"},
	"brother":    {"Boy"},
	"sister":     {"Girl"},
	"aunt":       {"Woman"},
	"uncle":      {"Man"},
	"grandma":    {"Woman"},
	"grandpa":    {"Man"},
	"cousin":     {"Boy", "Girl"},
}
