package pos

import "math"

// recitationModel is the CNJ/N/NP/V model with probabilities given in linear
// space.
func recitationModel() *Model {
	l := math.Log
	return NewBuilder().
		Transition(StartTag, "NP", l(0.3)).
		Transition(StartTag, "N", l(0.7)).
		Transition("NP", "CNJ", l(0.2)).
		Transition("NP", "V", l(0.8)).
		Transition("N", "V", l(0.8)).
		Transition("N", "CNJ", l(0.2)).
		Transition("CNJ", "NP", l(0.2)).
		Transition("CNJ", "V", l(0.4)).
		Transition("CNJ", "N", l(0.4)).
		Transition("V", "NP", l(0.4)).
		Transition("V", "CNJ", l(0.2)).
		Transition("V", "N", l(0.4)).
		Emission("NP", "chase", 0).
		Emission("CNJ", "and", 0).
		Emission("V", "get", l(0.1)).
		Emission("V", "chase", l(0.3)).
		Emission("V", "watch", l(0.6)).
		Emission("N", "cat", l(0.4)).
		Emission("N", "dog", l(0.4)).
		Emission("N", "watch", l(0.2)).
		Build()
}

// exerciseTables holds the MOD/PRO/DET exercise tables as published. MOD has
// no outgoing row there, so no path through MOD survives a second word.
func exerciseTables() *Builder {
	return NewBuilder().
		Transition(StartTag, "NP", -1.6).
		Transition(StartTag, "MOD", -2.3).
		Transition(StartTag, "PRO", -1.2).
		Transition(StartTag, "DET", -0.9).
		Transition("NP", "VD", -0.7).
		Transition("NP", "V", -0.7).
		Transition("DET", "N", 0).
		Transition("VD", "DET", -1.1).
		Transition("VD", "PRO", -0.4).
		Transition("N", "VD", -1.4).
		Transition("N", "V", -0.3).
		Transition("PRO", "VD", -1.6).
		Transition("PRO", "V", -0.5).
		Transition("PRO", "MOD", -1.6).
		Transition("V", "DET", -0.2).
		Transition("V", "PRO", -1.9).
		Emission("NP", "jobs", -0.7).
		Emission("NP", "will", -0.7).
		Emission("DET", "a", -1.3).
		Emission("DET", "many", -1.7).
		Emission("DET", "one", -1.7).
		Emission("DET", "the", -1.0).
		Emission("VD", "saw", -1.1).
		Emission("VD", "were", -1.1).
		Emission("VD", "wore", -1.1).
		Emission("N", "color", -2.4).
		Emission("N", "cook", -2.4).
		Emission("N", "fish", -1.0).
		Emission("N", "jobs", -2.4).
		Emission("N", "mine", -2.4).
		Emission("N", "saw", -1.7).
		Emission("N", "uses", -2.4).
		Emission("PRO", "I", -1.9).
		Emission("PRO", "many", -1.9).
		Emission("PRO", "me", -1.9).
		Emission("PRO", "mine", -1.9).
		Emission("PRO", "you", -0.8).
		Emission("V", "color", -2.1).
		Emission("V", "cook", -1.4).
		Emission("V", "eats", -2.1).
		Emission("V", "fish", -2.1).
		Emission("V", "has", -1.4).
		Emission("V", "uses", -2.1).
		Emission("MOD", "can", -0.7).
		Emission("MOD", "will", -0.7)
}

func exerciseModel() *Model {
	return exerciseTables().Build()
}

// modalModel gives MOD an outgoing row and makes NP prefer VD, so that
// "will" reads as a modal before a verb.
func modalModel() *Model {
	return exerciseTables().
		Transition("NP", "VD", -0.2).
		Transition("NP", "V", -1.6).
		Transition("MOD", "PRO", -0.7).
		Transition("MOD", "V", -0.7).
		Build()
}
