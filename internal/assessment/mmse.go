package assessment

// MMSEID identifies the clinician-rated MMSE form.
const MMSEID = "mmse"

func rated(id, prompt string) Question {
	return Question{ID: id, Prompt: prompt, Points: 1, Kind: KindRated}
}

// MMSE builds the clinician-rated Mini-Mental State Examination.
func MMSE() *Definition {
	return &Definition{
		ID:        MMSEID,
		Name:      "Mini-Mental State Examination",
		Short:     "MMSE",
		Version:   "v1.0.0",
		MaxScore:  30,
		TimeLimit: DefaultTimeLimit,
		Audience:  AudienceClinician,
		Sections: []Section{
			{
				ID:        "orientation",
				Title:     "Orientación",
				MaxPoints: 10,
				Questions: []Question{
					rated("year", "¿En qué año estamos?"),
					rated("season", "¿En qué estación del año estamos?"),
					rated("date", "¿Qué fecha es hoy?"),
					rated("day", "¿Qué día de la semana es hoy?"),
					rated("month", "¿En qué mes estamos?"),
					rated("country", "¿En qué país estamos?"),
					rated("city", "¿En qué ciudad estamos?"),
					rated("place", "¿Dónde estamos ahora?"),
					rated("floor", "¿En qué piso estamos?"),
					rated("district", "¿En qué distrito/colonia estamos?"),
				},
			},
			{
				ID:          "registration",
				Title:       "Registro",
				Description: "Nombre tres objetos con un segundo de intervalo. Luego pida al paciente que los repita.",
				MaxPoints:   3,
				Questions: []Question{
					rated("object1", "Objeto 1: 'Papel'"),
					rated("object2", "Objeto 2: 'Bicicleta'"),
					rated("object3", "Objeto 3: 'Cuchara'"),
				},
			},
			{
				ID:          "attention",
				Title:       "Atención y Cálculo",
				Description: "Pida al paciente que reste de 7 en 7 empezando desde 100.",
				MaxPoints:   5,
				Questions: []Question{
					rated("calc1", "93"),
					rated("calc2", "86"),
					rated("calc3", "79"),
					rated("calc4", "72"),
					rated("calc5", "65"),
				},
			},
			{
				ID:          "recall",
				Title:       "Recuerdo",
				Description: "Pida al paciente que recuerde los tres objetos mencionados anteriormente.",
				MaxPoints:   3,
				Questions: []Question{
					rated("recall1", "Papel"),
					rated("recall2", "Bicicleta"),
					rated("recall3", "Cuchara"),
				},
			},
			{
				ID:        "language",
				Title:     "Lenguaje",
				MaxPoints: 9,
				Questions: []Question{
					{
						ID:     "naming",
						Prompt: "Mostrar un lápiz y un reloj y pedir al paciente que los nombre",
						Points: 2,
						SubQuestions: []Question{
							rated("pencil", "Lápiz"),
							rated("watch", "Reloj"),
						},
					},
					rated("repeat", "Pedir al paciente que repita 'Ni sí, ni no, ni pero'"),
					{
						ID:     "commands",
						Prompt: "Solicitar que siga una secuencia de 3 comandos: 'Tome el papel con la mano derecha, dóblelo por la mitad y póngalo en el suelo'",
						Points: 3,
						SubQuestions: []Question{
							rated("command1", "Tomar papel con mano derecha"),
							rated("command2", "Doblar por la mitad"),
							rated("command3", "Poner en el suelo"),
						},
					},
					rated("read", "Pedir al paciente que lea y ejecute: 'CIERRE LOS OJOS'"),
					rated("write", "Pedir al paciente que escriba una frase"),
					rated("copy", "Pedir al paciente que copie un dibujo de pentágonos intersectados"),
				},
			},
		},
	}
}
