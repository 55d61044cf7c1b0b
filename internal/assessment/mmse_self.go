package assessment

import (
	"strconv"
	"time"
)

// SelfMMSEID identifies the patient-facing MMSE form.
const SelfMMSEID = "mmse-self"

var (
	seasons  = []string{"Primavera", "Verano", "Otoño", "Invierno"}
	weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
	months   = []string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
)

// SelfMMSE builds the self-administered MMSE. The orientation year is checked
// against now.
func SelfMMSE(now time.Time) *Definition {
	return &Definition{
		ID:        SelfMMSEID,
		Name:      "Mini-Mental State Examination (autoadministrado)",
		Short:     "MMSE",
		Version:   "v1.0.0",
		MaxScore:  30,
		TimeLimit: DefaultTimeLimit,
		Audience:  AudiencePatient,
		Sections: []Section{
			{
				ID:    "orientation",
				Title: "Orientación Temporal",
				Questions: []Question{
					{ID: "year", Prompt: "¿En qué año estamos?", Points: 1, Kind: KindText, Expected: strconv.Itoa(now.Year())},
					{ID: "season", Prompt: "¿En qué estación del año estamos?", Points: 1, Kind: KindSingleChoice, Options: seasons},
					{ID: "date", Prompt: "¿Qué fecha es hoy?", Points: 1, Kind: KindText},
					{ID: "day", Prompt: "¿Qué día de la semana es hoy?", Points: 1, Kind: KindSingleChoice, Options: weekdays},
					{ID: "month", Prompt: "¿En qué mes estamos?", Points: 1, Kind: KindSingleChoice, Options: months},
				},
			},
			{
				ID:    "location",
				Title: "Orientación Espacial",
				Questions: []Question{
					{ID: "country", Prompt: "¿En qué país estamos?", Points: 1, Kind: KindText},
					{ID: "city", Prompt: "¿En qué ciudad estamos?", Points: 1, Kind: KindText},
					{ID: "place", Prompt: "¿Dónde estamos ahora?", Points: 1, Kind: KindText},
					{ID: "floor", Prompt: "¿En qué piso estamos?", Points: 1, Kind: KindNumeric},
					{ID: "district", Prompt: "¿En qué distrito o colonia estamos?", Points: 1, Kind: KindText},
				},
			},
			{
				ID:          "registration",
				Title:       "Registro",
				Description: "Memorice estas tres palabras: PAPEL, BICICLETA, CUCHARA",
				Questions: []Question{
					{ID: "object1", Prompt: "Escriba la primera palabra", Points: 1, Kind: KindText, Expected: "PAPEL"},
					{ID: "object2", Prompt: "Escriba la segunda palabra", Points: 1, Kind: KindText, Expected: "BICICLETA"},
					{ID: "object3", Prompt: "Escriba la tercera palabra", Points: 1, Kind: KindText, Expected: "CUCHARA"},
				},
			},
			{
				ID:          "attention",
				Title:       "Atención y Cálculo",
				Description: "Reste de 7 en 7 empezando desde 100",
				Questions: []Question{
					{ID: "calc1", Prompt: "100 - 7 =", Points: 1, Kind: KindNumeric, Expected: "93"},
					{ID: "calc2", Prompt: "Reste 7 otra vez", Points: 1, Kind: KindNumeric, Expected: "86"},
					{ID: "calc3", Prompt: "Reste 7 otra vez", Points: 1, Kind: KindNumeric, Expected: "79"},
					{ID: "calc4", Prompt: "Reste 7 otra vez", Points: 1, Kind: KindNumeric, Expected: "72"},
					{ID: "calc5", Prompt: "Reste 7 otra vez", Points: 1, Kind: KindNumeric, Expected: "65"},
				},
			},
			{
				ID:          "recall",
				Title:       "Recuerdo",
				Description: "Escriba las tres palabras que memorizó anteriormente",
				Questions: []Question{
					{ID: "recall1", Prompt: "Primera palabra", Points: 1, Kind: KindText, Expected: "PAPEL"},
					{ID: "recall2", Prompt: "Segunda palabra", Points: 1, Kind: KindText, Expected: "BICICLETA"},
					{ID: "recall3", Prompt: "Tercera palabra", Points: 1, Kind: KindText, Expected: "CUCHARA"},
				},
			},
			{
				ID:    "language",
				Title: "Lenguaje",
				Questions: []Question{
					{ID: "naming1", Prompt: "¿Cómo se llama el objeto con el que se escribe?", Points: 1, Kind: KindText, Expected: "LAPIZ", Hint: "Un objeto de madera con mina de grafito"},
					{ID: "naming2", Prompt: "¿Cómo se llama el objeto que marca la hora?", Points: 1, Kind: KindText, Expected: "RELOJ"},
					{ID: "repeat", Prompt: "Escriba la frase: \"Ni sí, ni no, ni pero\"", Points: 1, Kind: KindText, Expected: "NI SI, NI NO, NI PERO"},
					{
						ID:     "command",
						Prompt: "Tome un papel con la mano derecha, dóblelo por la mitad y póngalo en el suelo. Marque lo que ha hecho.",
						Points: 3,
						Kind:   KindMultiChoice,
						Options: []string{
							"He tomado el papel con la mano derecha",
							"He doblado el papel por la mitad",
							"He puesto el papel en el suelo",
						},
					},
				},
			},
			{
				ID:    "final",
				Title: "Lectura, Escritura y Copia",
				Questions: []Question{
					{ID: "read", Prompt: "Lea y haga lo que dice: CIERRE LOS OJOS", Points: 1, Kind: KindMultiChoice, Options: []string{"He cerrado los ojos"}},
					{ID: "write", Prompt: "Escriba una frase completa", Points: 1, Kind: KindText},
					{ID: "copy", Prompt: "Copie el dibujo de dos pentágonos que se cruzan y describa su copia", Points: 1, Kind: KindDrawing},
				},
			},
		},
	}
}
