package assessment

// MoCAID identifies the Montreal Cognitive Assessment.
const MoCAID = "moca"

// MoCA builds the Montreal Cognitive Assessment. The memory trials are
// administered but not scored; the words are scored in delayed recall.
func MoCA() *Definition {
	unscored := func(id, prompt string) Question {
		return Question{ID: id, Prompt: prompt, Points: 0, Kind: KindRated}
	}

	return &Definition{
		ID:        MoCAID,
		Name:      "Montreal Cognitive Assessment",
		Short:     "MoCA",
		Version:   "v8.1.0",
		MaxScore:  30,
		TimeLimit: DefaultTimeLimit,
		Audience:  AudienceClinician,
		Sections: []Section{
			{
				ID:        "visuospatial",
				Title:     "Visuoespacial/Ejecutiva",
				MaxPoints: 5,
				Questions: []Question{
					{ID: "trail", Prompt: "Trail Making", Points: 1, Hint: "Una cada número con su letra correspondiente en orden ascendente (1-A-2-B-...)"},
					{ID: "cube", Prompt: "Dibujo del Cubo", Points: 1, Hint: "Copie este dibujo de la manera más precisa posible"},
					{
						ID:     "clock",
						Prompt: "Dibujo del Reloj",
						Points: 3,
						Hint:   "Dibuje un reloj marcando las 11:10",
						SubQuestions: []Question{
							rated("clockCircle", "Contorno"),
							rated("clockNumbers", "Números"),
							rated("clockHands", "Manecillas"),
						},
					},
				},
			},
			{
				ID:          "naming",
				Title:       "Denominación",
				Description: "Pida al paciente que nombre cada animal.",
				MaxPoints:   3,
				Questions: []Question{
					rated("lion", "León"),
					rated("rhino", "Rinoceronte"),
					rated("camel", "Camello"),
				},
			},
			{
				ID:           "memory",
				Title:        "Memoria",
				Instructions: "Lea la lista de 5 palabras. El paciente debe repetirlas. Realice dos ensayos. No puntúe todavía.",
				Questions: []Question{
					unscored("face", "Cara"),
					unscored("velvet", "Terciopelo"),
					unscored("church", "Iglesia"),
					unscored("daisy", "Margarita"),
					unscored("red", "Rojo"),
				},
			},
			{
				ID:        "attention",
				Title:     "Atención",
				MaxPoints: 6,
				Questions: []Question{
					{
						ID:     "digitSpan",
						Prompt: "Span de Dígitos",
						Points: 2,
						Hint:   "Lea la secuencia de números. El paciente debe repetirla tal cual y luego hacia atrás.",
						SubQuestions: []Question{
							rated("forwardDigits", "Hacia adelante: 2-1-8-5-4"),
							rated("backwardDigits", "Hacia atrás: 7-4-2"),
						},
					},
					{ID: "vigilance", Prompt: "Vigilancia", Points: 1, Hint: "Lea la serie de letras. El paciente debe dar un golpecito cuando escuche la letra 'A'."},
					{
						ID:     "serial7",
						Prompt: "Sustracción serial de 7",
						Points: 3,
						Hint:   "El paciente debe restar 7 sucesivamente, empezando desde 100.",
						SubQuestions: []Question{
							rated("calc1", "93"),
							rated("calc2", "86"),
							rated("calc3", "79"),
						},
					},
				},
			},
			{
				ID:        "language",
				Title:     "Lenguaje",
				MaxPoints: 3,
				Questions: []Question{
					{
						ID:     "repetition",
						Prompt: "Repetición",
						Points: 2,
						Hint:   "El paciente debe repetir exactamente:",
						SubQuestions: []Question{
							rated("rep1", "Solo sé que Juan es quien puede ayudar hoy"),
							rated("rep2", "El gato se esconde siempre bajo el sofá cuando los perros están en el salón"),
						},
					},
					{ID: "fluency", Prompt: "Fluidez verbal", Points: 1, Hint: "El paciente debe nombrar tantas palabras como pueda que empiecen con la letra 'P' en un minuto."},
				},
			},
			{
				ID:        "abstraction",
				Title:     "Abstracción",
				MaxPoints: 2,
				Questions: []Question{
					{
						ID:     "similarity",
						Prompt: "Similitud",
						Points: 2,
						Hint:   "El paciente debe explicar qué tienen en común cada par de palabras:",
						SubQuestions: []Question{
							rated("trainBicycle", "Tren - Bicicleta"),
							rated("watchRuler", "Reloj - Regla"),
						},
					},
				},
			},
			{
				ID:           "delayed_recall",
				Title:        "Recuerdo diferido",
				Instructions: "El paciente debe recordar las palabras aprendidas anteriormente sin pistas.",
				MaxPoints:    5,
				Questions: []Question{
					rated("recallFace", "Cara"),
					rated("recallVelvet", "Terciopelo"),
					rated("recallChurch", "Iglesia"),
					rated("recallDaisy", "Margarita"),
					rated("recallRed", "Rojo"),
				},
			},
			{
				ID:        "orientation",
				Title:     "Orientación",
				MaxPoints: 6,
				Questions: []Question{
					rated("date", "Fecha"),
					rated("month", "Mes"),
					rated("year", "Año"),
					rated("day", "Día de la semana"),
					rated("place", "Lugar"),
					rated("city", "Ciudad"),
				},
			},
		},
	}
}
