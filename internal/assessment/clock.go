package assessment

// ClockID identifies the Clock Drawing test.
const ClockID = "clock"

// Clock builds the three-step Clock Drawing test: contour, numbers, hands.
// Each step records a description of the drawing and the rated criteria.
func Clock() *Definition {
	return &Definition{
		ID:        ClockID,
		Name:      "Prueba del Dibujo del Reloj",
		Short:     "Prueba del Reloj",
		Version:   "v1.0.0",
		MaxScore:  10,
		TimeLimit: DefaultTimeLimit,
		Audience:  AudienceClinician,
		Sections: []Section{
			{
				ID:           "contour",
				Title:        "Contorno",
				Instructions: "Dibuje un reloj con todos sus números y coloque las manecillas indicando las 11:10",
				MaxPoints:    2,
				Questions: []Question{
					{ID: "contourDrawing", Prompt: "Describa el contorno dibujado", Points: 1, Kind: KindDrawing},
					rated("closedContour", "El contorno es cerrado y aproximadamente circular"),
				},
			},
			{
				ID:           "numbers",
				Title:        "Números",
				Instructions: "Coloque los números del 1 al 12 en el reloj",
				MaxPoints:    4,
				Questions: []Question{
					{ID: "numbersDrawing", Prompt: "Describa los números dibujados", Points: 1, Kind: KindDrawing},
					{
						ID:     "numberCriteria",
						Prompt: "Criterios de los números",
						Points: 3,
						SubQuestions: []Question{
							rated("allNumbers", "Están los 12 números, sin repeticiones"),
							rated("numberOrder", "Los números siguen el orden correcto"),
							rated("numberPlacement", "Los números están en los cuadrantes correctos"),
						},
					},
				},
			},
			{
				ID:           "hands",
				Title:        "Manecillas",
				Instructions: "Dibuje las manecillas del reloj indicando las 11:10",
				MaxPoints:    4,
				Questions: []Question{
					{ID: "handsDrawing", Prompt: "Describa las manecillas dibujadas", Points: 1, Kind: KindDrawing},
					{
						ID:     "handCriteria",
						Prompt: "Criterios de las manecillas",
						Points: 3,
						SubQuestions: []Question{
							rated("twoHands", "Hay dos manecillas unidas en el centro"),
							rated("handsTime", "Las manecillas marcan las 11:10"),
							rated("handLengths", "La manecilla de las horas es más corta que la de los minutos"),
						},
					},
				},
			},
		},
	}
}
