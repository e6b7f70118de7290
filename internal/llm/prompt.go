package llm

import "fmt"

const ocrSystemPrompt = "You are a helpful assistant specialized in OCR and text extraction."

const defaultOCRInstruction = `Extract all text from the image in detail, including place names, ` +
	`addresses, phone numbers, website information, opening hours and tags. ` +
	`Preserve the original format and structure.`

const structureSystemPrompt = `You are a data-curation expert who converts unstructured text into structured JSON.
Analyze the text carefully, identify every place, business or institution, and classify each piece of information correctly.`

const editSystemPrompt = `You are a JSON data-editing assistant. The user gives you the current JSON document and an editing instruction; apply the instruction and return the complete modified JSON.

Requirements:
1. Follow the instruction exactly.
2. Keep the JSON structure intact.
3. Output only the modified JSON, with no explanations.
4. Keep every field's data type correct.
5. Strip redundant whitespace when cleaning text.
6. Coordinates use the form {"lat": <latitude>, "lng": <longitude>}.`

// buildStructurePrompt renders the user message asking the model to turn
// extracted text into the map-data JSON shape.
func buildStructurePrompt(extractedText string) string {
	return fmt.Sprintf(`Organize the extracted text below into JSON. Requirements:

1. Identify every place, business or institution mentioned.
2. Classify each piece of information correctly (name, address, phone, website, ...).
3. Only fill in fields whose value actually appears in the text; omit keys for absent values.
4. Keep phone numbers in their original format.
5. List multiple places as separate entries.
6. If no tags were requested, output tags as an empty list.
7. The output must be valid JSON.

Extracted text:
%s

Output using this shape:
{
  "data": [
    {
      "name": "place or business name",
      "address": "street address",
      "phone": "phone number",
      "webName": "website or account name",
      "webLink": "https://...",
      "intro": "short description",
      "tags": ["tag", "category"],
      "center": {"lat": 0, "lng": 0}
    }
  ]
}

Output only the JSON, with no surrounding text. If nothing can be identified, output an empty data array.`, extractedText)
}

// buildEditPrompt renders the user message for an instruction-driven edit of
// the current document.
func buildEditPrompt(currentJSON, instruction string) string {
	return fmt.Sprintf(`Current JSON document:
%s

Instruction: %s

Apply the instruction and return the complete modified JSON.`, currentJSON, instruction)
}
