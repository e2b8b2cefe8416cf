package team

// DefaultAliases returns a fresh copy of the built-in alias table.
func DefaultAliases() map[string]string {
	out := make(map[string]string, len(defaultAliases))
	for raw, canonical := range defaultAliases {
		out[raw] = canonical
	}
	return out
}

var defaultAliases = map[string]string{
	"Ath Bilbao":                "Athletic Bilbao",
	"Athletic Club":             "Athletic Bilbao",
	"Ath Madrid":                "Atletico Madrid",
	"Atlético de Madrid":        "Atletico Madrid",
	"Club Atlético de Madrid":   "Atletico Madrid",
	"Espanol":                   "Espanyol",
	"RCD Espanyol":              "Espanyol",
	"RCD Espanyol de Barcelona": "Espanyol",
	"Celta":                     "Celta de Vigo",
	"Celta Vigo":                "Celta de Vigo",
	"RC Celta de Vigo":          "Celta de Vigo",
	"Betis":                     "Real Betis",
	"Real Betis Balompie":       "Real Betis",
	"Sociedad":                  "Real Sociedad",
	"Real Sociedad de Futbol":   "Real Sociedad",
	"Real Madrid CF":            "Real Madrid",
	"FC Barcelona":              "Barcelona",
	"Girona FC":                 "Girona",
	"Valencia CF":               "Valencia",
	"RCD Mallorca":              "Mallorca",
	"CA Osasuna":                "Osasuna",
	"Sevilla FC":                "Sevilla",
	"Villarreal CF":             "Villarreal",
	"Deportivo Alavés":          "Alaves",
	"UD Las Palmas":             "Las Palmas",
	"CD Leganés":                "Leganes",
	"Valladolid":                "Real Valladolid",
	"Real Valladolid CF":        "Real Valladolid",
	"Getafe CF":                 "Getafe",
	"Rayo":                      "Rayo Vallecano",
	"Vallecano":                 "Rayo Vallecano",
	"Rayo Vallecano de Madrid":  "Rayo Vallecano",
	"Oviedo":                    "Real Oviedo",
	"Levante UD":                "Levante",
	"Elche CF":                  "Elche",
	"Cadiz":                     "Cadiz",
	"Granada":                   "Granada",
	"Almeria":                   "Almeria",
	"Eibar":                     "Eibar",
	"Huesca":                    "Huesca",
	"Sp Gijon":                  "Sporting Gijon",
	"Sporting de Gijón":         "Sporting Gijon",
	"La Coruna":                 "Deportivo La Coruna",
	"Deportivo":                 "Deportivo La Coruna",
	"Malaga":                    "Malaga",
	"Santander":                 "Racing Santander",
	"Zaragoza":                  "Real Zaragoza",
	"Tenerife":                  "Tenerife",
	"Cordoba":                   "Cordoba",
}
